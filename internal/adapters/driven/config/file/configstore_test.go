package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

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

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[game]
epoch_start = 2025-10-10
utc_offset_minutes = 540
lookahead_days = 3

[server]
addr = ":9000"
guess_rate_per_second = 2.5
guess_burst = 4

[scheduler]
enabled = false
interval = "30m"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "2025-10-10", store.GetString("game.epoch_start"))
	assert.Equal(t, 540, store.GetInt("game.utc_offset_minutes"))
	assert.Equal(t, 3, store.GetInt("game.lookahead_days"))
	assert.Equal(t, ":9000", store.GetString("server.addr"))
	assert.Equal(t, 2.5, store.GetFloat("server.guess_rate_per_second"))
	assert.Equal(t, float64(4), store.GetFloat("server.guess_burst"))
	assert.Equal(t, 4, store.GetInt("server.guess_burst"))
	assert.False(t, store.GetBool("scheduler.enabled"))
	_, exists := store.Get("scheduler.enabled")
	assert.True(t, exists)
	assert.Equal(t, 30*time.Minute, store.GetDuration("scheduler.interval"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("game.lookahead_days", 5))
	require.NoError(t, store.Set("storage.backend", "redis"))
	require.NoError(t, store.Set("cache.ttl", "2m"))
	require.NoError(t, store.Set("toplevel", true))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 5, reloaded.GetInt("game.lookahead_days"))
	assert.Equal(t, "redis", reloaded.GetString("storage.backend"))
	assert.Equal(t, 2*time.Minute, reloaded.GetDuration("cache.ttl"))
	assert.True(t, reloaded.GetBool("toplevel"))
}

func TestConfigStore_SavesTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("game.retention_days", 3))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[game]")
	assert.Contains(t, string(data), "retention_days = 3")
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// Channels cannot be marshaled to TOML
	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("text", "abc"))
	require.NoError(t, store.Set("number", 12))

	assert.Equal(t, 0, store.GetInt("text"))
	assert.Equal(t, float64(0), store.GetFloat("text"))
	assert.False(t, store.GetBool("text"))
	assert.Equal(t, time.Duration(0), store.GetDuration("text"))
	assert.Equal(t, "", store.GetString("number"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("game.lookahead_days", i)
			_ = store.GetInt("game.lookahead_days")
		}(i)
	}
	wg.Wait()
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"game.lookahead_days": 3,
		"game.retention_days": 4,
		"server.addr":         ":8080",
		"flat":                true,
	})

	game, ok := nested["game"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, game["lookahead_days"])
	assert.Equal(t, 4, game["retention_days"])
	assert.Equal(t, true, nested["flat"])

	assert.Equal(t, flattenMap(nested, ""), map[string]any{
		"game.lookahead_days": 3,
		"game.retention_days": 4,
		"server.addr":         ":8080",
		"flat":                true,
	})
}

func TestNestMap_Collision(t *testing.T) {
	nested := nestMap(map[string]any{
		"a":   1,
		"a.b": 2,
	})

	flat := flattenMap(nested, "")
	assert.Equal(t, 1, flat["a"])
	assert.Equal(t, 2, flat["a.b"])
}
