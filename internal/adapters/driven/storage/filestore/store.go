// Package filestore provides a driven.KeyValueStore that keeps each key in
// its own JSON file. It is the only backend that can report changes made by
// other processes, via fsnotify.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/chapas/internal/core/ports/driven"
	"github.com/custodia-labs/chapas/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.KeyValueStore  = (*Store)(nil)
	_ driven.WatchableStore = (*Store)(nil)
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("file store is closed")

// Store keeps each key in <dir>/<escaped key>.json.
type Store struct {
	dir string

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the file a key is stored in.
func (s *Store) PathFor(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.check(ctx); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(s.PathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes value to a temporary file and renames it over the key's file,
// so readers never see a partial write.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	if err := os.Rename(tmpName, s.PathFor(key)); err != nil {
		return fmt.Errorf("replacing key %q: %w", key, err)
	}
	return nil
}

// Remove deletes the key's file.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	err := os.Remove(s.PathFor(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing key %q: %w", key, err)
	}
	return nil
}

// Watch notifies on every create, write, rename or removal of the key's
// file. Bursts are coalesced: at most one notification is pending at a time.
// The channel is closed when ctx is done or the store is closed.
func (s *Store) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// The directory is watched rather than the file so that the atomic
	// rename in Set and a first write are both seen.
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}
	s.watchers = append(s.watchers, w)

	target := filepath.Base(s.PathFor(key))
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target || event.Op == fsnotify.Chmod {
					continue
				}
				logger.Debug("History file event: %s", event)
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("History watcher error: %v", err)
			}
		}
	}()

	return out, nil
}

// Close stops all watchers. It is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, w := range s.watchers {
		_ = w.Close()
	}
	s.watchers = nil
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}
