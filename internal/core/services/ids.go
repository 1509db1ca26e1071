package services

import (
	"sync"
	"time"
)

// idClock hands out epoch-millisecond ids. Ids are strictly increasing
// within a process even when two are requested in the same millisecond.
type idClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDClock() *idClock {
	return &idClock{now: time.Now}
}

func (c *idClock) next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}
