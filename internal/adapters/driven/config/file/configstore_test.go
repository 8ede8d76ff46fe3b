package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid TOML {{{[["), 0o600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("parser.provider", "llamaparse"))
	require.NoError(t, store.Set("embedding.dimensions", 768))
	require.NoError(t, store.Set("embedding.requests_per_second", 2.5))
	require.NoError(t, store.Set("server.allowed_origins", []string{"http://localhost:3000"}))
	require.NoError(t, store.Set("flag", true))

	assert.Equal(t, "llamaparse", store.GetString("parser.provider"))
	assert.Equal(t, 768, store.GetInt("embedding.dimensions"))
	assert.InDelta(t, 768.0, store.GetFloat("embedding.dimensions"), 1e-9)
	assert.InDelta(t, 2.5, store.GetFloat("embedding.requests_per_second"), 1e-9)
	assert.Equal(t, []string{"http://localhost:3000"}, store.GetStringSlice("server.allowed_origins"))
	assert.True(t, store.GetBool("flag"))

	// Wrong types and missing keys return zero values
	assert.Equal(t, "", store.GetString("embedding.dimensions"))
	assert.Equal(t, 0, store.GetInt("parser.provider"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("parser.provider"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))
	require.NoError(t, store.Set("embedding.requests_per_second", 4.0))
	require.NoError(t, store.Set("pipeline.heading.max_level", 2))
	require.NoError(t, store.Set("server.allowed_origins", []string{"http://a", "http://b"}))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", reloaded.GetString("embedding.provider"))
	assert.Equal(t, "nomic-embed-text", reloaded.GetString("embedding.model"))
	// 4.0 is read back as a TOML float or integer; both widen.
	assert.InDelta(t, 4.0, reloaded.GetFloat("embedding.requests_per_second"), 1e-9)
	assert.Equal(t, 2, reloaded.GetInt("pipeline.heading.max_level"))
	assert.Equal(t, []string{"http://a", "http://b"}, reloaded.GetStringSlice("server.allowed_origins"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("embedding.provider", "hash"))
	require.NoError(t, store.Set("data_dir", "/var/lib/wilson"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	assert.Contains(t, string(data), "[embedding]")
	assert.Contains(t, string(data), "provider = 'hash'")
	assert.Contains(t, string(data), "data_dir = '/var/lib/wilson'")
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
data_dir = "/srv/wilson"

[parser]
provider = "local"

[index]
metric = "cosine"

[pipeline.heading]
max_level = 2
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/wilson", store.GetString("data_dir"))
	assert.Equal(t, "local", store.GetString("parser.provider"))
	assert.Equal(t, "cosine", store.GetString("index.metric"))
	assert.Equal(t, 2, store.GetInt("pipeline.heading.max_level"))
	assert.Equal(t,
		[]string{"data_dir", "index.metric", "parser.provider", "pipeline.heading.max_level"},
		store.Keys())
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())

	_, ok := store.Get("key")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("embedding.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0o700))

	assert.Error(t, store.Set("another", "value"))
	assert.Error(t, store.Save())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store := newTestStore(t)

	err := store.Set("channel", make(chan int))

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("index.metric", "l2")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("index.metric")
		}()
	}
	wg.Wait()

	assert.Equal(t, "l2", store.GetString("index.metric"))
}

func TestFlattenAndNestMap(t *testing.T) {
	flat := map[string]any{
		"data_dir":           "/d",
		"parser.provider":    "local",
		"parser.api_key":     "k",
		"pipeline.heading.x": 1,
	}

	nested := nestMap(flat)

	assert.Equal(t, "/d", nested["data_dir"])
	assert.Equal(t, map[string]any{"provider": "local", "api_key": "k"}, nested["parser"])
	assert.Equal(t, map[string]any{"heading": map[string]any{"x": 1}}, nested["pipeline"])
	assert.Equal(t, flat, flattenMap(nested, ""))
}

func TestNestMap_ScalarPrefixKeptFlat(t *testing.T) {
	nested := nestMap(map[string]any{"a": 1, "a.b": 2})

	assert.Equal(t, map[string]any{"a": 1, "a.b": 2}, nested)
	assert.Equal(t, map[string]any{"a": 1, "a.b": 2}, flattenMap(nested, ""))
}
