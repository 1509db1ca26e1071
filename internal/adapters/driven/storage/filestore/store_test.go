package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyKey = "@calculos_chapas_history"

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, dir)
	assert.Equal(t, dir, store.Dir())
}

func TestStore_PathForEscapesKey(t *testing.T) {
	store := setupTestStore(t)

	assert.Equal(t, filepath.Join(store.Dir(), "@calculos_chapas_history.json"), store.PathFor(historyKey))
	assert.Equal(t, filepath.Join(store.Dir(), "a%2Fb.json"), store.PathFor("a/b"))
}

func TestStore_SetGetRemove(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, historyKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, historyKey, `[{"id":1}]`))
	v, ok, err := store.Get(ctx, historyKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)

	info, err := os.Stat(store.PathFor(historyKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, store.Remove(ctx, historyKey))
	require.NoError(t, store.Remove(ctx, historyKey))
	assert.NoFileExists(t, store.PathFor(historyKey))
}

func TestStore_SetLeavesNoTempFiles(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Set(ctx, historyKey, "[]"))
	}

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "@calculos_chapas_history.json", entries[0].Name())
}

func TestStore_ClosedOperationsFail(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	ctx := context.Background()
	_, _, err := store.Get(ctx, historyKey)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Set(ctx, historyKey, "[]"), ErrClosed)

	ch, err := store.Watch(ctx, historyKey)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, ch)
}

func TestStore_Watch(t *testing.T) {
	t.Run("notifies on write by another writer", func(t *testing.T) {
		store := setupTestStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := store.Watch(ctx, historyKey)
		require.NoError(t, err)

		other, err := NewStore(store.Dir())
		require.NoError(t, err)
		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = other.Set(context.Background(), historyKey, "[]")
		}()

		select {
		case _, ok := <-changes:
			assert.True(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for history change")
		}
	})

	t.Run("ignores other files", func(t *testing.T) {
		store := setupTestStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := store.Watch(ctx, historyKey)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "unrelated.txt"), []byte("x"), 0600))

		select {
		case <-changes:
			t.Fatal("unexpected notification")
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		store := setupTestStore(t)
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := store.Watch(ctx, historyKey)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			if ok {
				for range changes {
				}
			}
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("closes channel when store is closed", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		changes, err := store.Watch(context.Background(), historyKey)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		select {
		case _, ok := <-changes:
			if ok {
				for range changes {
				}
			}
		case <-time.After(time.Second):
			t.Fatal("channel did not close after store close")
		}
	})
}
