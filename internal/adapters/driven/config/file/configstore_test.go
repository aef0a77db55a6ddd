package file

import (
	"os"
	"path/filepath"
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

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("analyzer.model", "llama3.2")
	require.NoError(t, err)

	val, ok := store.Get("analyzer.model")
	assert.True(t, ok)
	assert.Equal(t, "llama3.2", val)
}

func TestConfigStore_GetString(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("analyzer.provider", "ollama"))

	assert.Equal(t, "ollama", store.GetString("analyzer.provider"))

	// Non-existent key
	assert.Equal(t, "", store.GetString("nonexistent"))

	// Wrong type
	require.NoError(t, store.Set("generate.concurrency", 8))
	assert.Equal(t, "", store.GetString("generate.concurrency"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("generate.concurrency", 8))
	assert.Equal(t, 8, store.GetInt("generate.concurrency"))

	assert.Equal(t, 0, store.GetInt("nonexistent"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("analyzer.rate_limit", 2.5))
	assert.Equal(t, 2.5, store.GetFloat("analyzer.rate_limit"))

	// Integers convert
	require.NoError(t, store.Set("analyzer.whole", 3))
	assert.Equal(t, 3.0, store.GetFloat("analyzer.whole"))

	assert.Equal(t, 0.0, store.GetFloat("nonexistent"))
}

func TestConfigStore_GetBool(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("generate.verbose", true))
	assert.True(t, store.GetBool("generate.verbose"))

	assert.False(t, store.GetBool("nonexistent"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("generate.extensions", []string{".py", ".pyi"}))
	assert.Equal(t, []string{".py", ".pyi"}, store.GetStringSlice("generate.extensions"))

	assert.Nil(t, store.GetStringSlice("nonexistent"))
}

func TestConfigStore_PersistAndReload(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("analyzer.provider", "openai"))
	require.NoError(t, store.Set("generate.concurrency", 4))

	// Open the same directory again: values must survive the round trip.
	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "openai", reloaded.GetString("analyzer.provider"))
	assert.Equal(t, 4, reloaded.GetInt("generate.concurrency"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	content := "[analyzer]\nprovider = \"ollama\"\nmodel = \"llama3.2\"\n\n[generate]\nconcurrency = 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("analyzer.provider"))
	assert.Equal(t, "llama3.2", store.GetString("analyzer.model"))
	assert.Equal(t, 2, store.GetInt("generate.concurrency"))
}
