package driven

import "context"

// KeyValueStore is the opaque string-keyed substrate the history log is
// persisted in. Backed by SQLite, JSON files, PostgreSQL or memory.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// The boolean is false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// WatchableStore is implemented by stores that can report external changes
// to a key. Optional: callers type-assert for it.
type WatchableStore interface {
	KeyValueStore

	// Watch sends on the returned channel each time key changes on disk.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}
