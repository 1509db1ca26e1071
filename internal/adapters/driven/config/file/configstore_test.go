package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_ChapasHome(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CHAPAS_HOME", tmpDir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.backend", "file"))

	val, ok := store.Get("storage.backend")
	assert.True(t, ok)
	assert.Equal(t, "file", val)
	assert.Equal(t, "file", store.GetString("storage.backend"))
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("defaults.bars.length", int64(6000)))

	assert.Empty(t, store.GetString("defaults.bars.length"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_Persistence_NestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.backend", "postgres"))
	require.NoError(t, store.Set("defaults.paint.coverage", "0,09"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[storage]")
	assert.Contains(t, string(data), "[defaults.paint]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "postgres", reopened.GetString("storage.backend"))
	assert.Equal(t, "0,09", reopened.GetString("defaults.paint.coverage"))
}

func TestConfigStore_Load_HandWritten(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[storage]
backend = "sqlite"

[defaults.bars]
length = 12000
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", store.GetString("storage.backend"))
	val, ok := store.Get("defaults.bars.length")
	require.True(t, ok)
	assert.EqualValues(t, 12000, val)
}

func TestConfigStore_Unset(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("history.key", "custom"))
	require.NoError(t, store.Unset("history.key"))
	require.NoError(t, store.Unset("never.set"))

	_, ok := store.Get("history.key")
	assert.False(t, ok)

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok = reopened.Get("history.key")
	assert.False(t, ok)
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.backend", "memory"))
	assert.Equal(t, "memory", store.GetString("storage.backend"))
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("history.key", "k")
			_ = store.GetString("history.key")
		}()
	}
	wg.Wait()

	assert.Equal(t, "k", store.GetString("history.key"))
}

func TestFlattenAndNest(t *testing.T) {
	flat := map[string]any{
		"storage.backend":            "file",
		"defaults.sheets_unit.width": "4000",
		"top":                        true,
	}

	nested := nestMap(flat)
	assert.Equal(t, "file", nested["storage"].(map[string]any)["backend"])
	assert.Equal(t, true, nested["top"])
	assert.Equal(t, flat, flattenMap(nested, ""))
}
