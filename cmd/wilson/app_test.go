package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestNewApp_WiresOfflineDefaults(t *testing.T) {
	dataDir := t.TempDir()
	a, err := newApp(appOptions{
		ConfigDir: t.TempDir(),
		Env:       envMap(map[string]string{envDataDir: dataDir}),
	})
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Services.Ingestion)
	require.NotNil(t, a.Services.Clause)
	require.NotNil(t, a.Services.Document)
	require.NotNil(t, a.Services.Settings)
	require.NotNil(t, a.Services.SupportedFile)
	assert.FileExists(t, filepath.Join(dataDir, "wilson.db"))

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contract.md")
	content := "# Termination\nEither party may terminate this agreement on thirty days notice.\n" +
		"\f# Confidentiality\nEach party shall keep the other party's information confidential.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	result, err := a.Services.Ingestion.Ingest(ctx, path, "contract.md")
	require.NoError(t, err)
	assert.Equal(t, 2, result.PagesProcessed)
	assert.False(t, result.AlreadyIngested)

	again, err := a.Services.Ingestion.Ingest(ctx, path, "contract.md")
	require.NoError(t, err)
	assert.True(t, again.AlreadyIngested)
	assert.Zero(t, again.PagesProcessed)

	docs, err := a.Services.Document.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "contract.md", docs[0].Name)

	candidates, err := a.Services.Clause.ExtractAll(ctx, "contract.md")
	require.NoError(t, err)
	for _, c := range candidates {
		assert.Equal(t, "contract.md", c.Metadata.DocumentName)
		assert.LessOrEqual(t, c.Distance, 1.1)
	}

	none, err := a.Services.Clause.ExtractAll(ctx, "other.md")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewApp_DefaultsRetrieveOnTopicPassages(t *testing.T) {
	a, err := newApp(appOptions{
		ConfigDir: t.TempDir(),
		Env:       envMap(map[string]string{envDataDir: t.TempDir()}),
	})
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "msa.md")
	content := "## Termination\n" +
		"Either party may terminate this Agreement upon thirty (30) days written notice if the other party " +
		"materially breaches this Agreement and fails to cure such breach.\n" +
		"\f## Fees\nPayment is due within thirty days of invoice. Late amounts accrue interest at one percent per month.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err = a.Services.Ingestion.Ingest(ctx, path, "msa.md")
	require.NoError(t, err)

	termination, err := a.Services.Clause.Extract(ctx, "msa.md", domain.ClauseTermination)
	require.NoError(t, err)
	require.Len(t, termination, 1)
	assert.Equal(t, "msa.md_id_1_0", termination[0].ID)
	assert.Equal(t, domain.ClauseTermination, termination[0].ClauseType)

	all, err := a.Services.Clause.ExtractAll(ctx, "msa.md")
	require.NoError(t, err)
	for _, c := range all {
		assert.NotEqual(t, "msa.md_id_2_0", c.ID, "fee passage matched %s", c.ClauseType)
	}
}

func TestNewApp_Ephemeral(t *testing.T) {
	dataDir := t.TempDir()
	configDir := t.TempDir()
	a, err := newApp(appOptions{
		ConfigDir: configDir,
		Env:       envMap(map[string]string{envDataDir: dataDir, envEphemeral: "true"}),
	})
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Services.Ingestion)
	assert.Nil(t, a.store)

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nda.md")
	require.NoError(t, os.WriteFile(path, []byte("# Confidentiality\nKeep it secret."), 0o600))

	result, err := a.Services.Ingestion.Ingest(ctx, path, "nda.md")
	require.NoError(t, err)
	assert.Equal(t, 1, result.PagesProcessed)

	docs, err := a.Services.Document.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, a.Services.Settings.SetMetric(domain.DistanceCosine))
	assert.NoFileExists(t, filepath.Join(configDir, "config.toml"))
}

func TestNewApp_BrokenProviderKeepsSettings(t *testing.T) {
	configDir := t.TempDir()
	config := "[embedding]\nprovider = 'openai'\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600))

	a, err := newApp(appOptions{
		ConfigDir: configDir,
		Env:       envMap(map[string]string{envDataDir: t.TempDir()}),
	})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Services.Settings)
	assert.Nil(t, a.Services.Ingestion)
	assert.Nil(t, a.Services.Clause)
	assert.Nil(t, a.Services.Document)
}

func TestNewApp_EmbeddingChangeOnPopulatedIndex(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()
	env := envMap(map[string]string{envDataDir: dataDir})

	first, err := newApp(appOptions{ConfigDir: configDir, Env: env})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "nda.md")
	require.NoError(t, os.WriteFile(path, []byte("# Confidentiality\nKeep it secret."), 0o600))
	_, err = first.Services.Ingestion.Ingest(context.Background(), path, "nda.md")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	config := "[embedding]\nprovider = 'hash'\ndimensions = 64\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600))

	second, err := newApp(appOptions{ConfigDir: configDir, Env: env})
	require.NoError(t, err)
	defer second.Close()

	assert.NotNil(t, second.Services.Settings)
	assert.Nil(t, second.Services.Ingestion, "vectors of another size must not be mixed into the index")
}

func TestNewApp_OpenAIKeyFromEnv(t *testing.T) {
	configDir := t.TempDir()
	config := "[embedding]\nprovider = 'openai'\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600))

	a, err := newApp(appOptions{
		ConfigDir: configDir,
		Env: envMap(map[string]string{
			envDataDir:   t.TempDir(),
			envOpenAIKey: "sk-test",
		}),
	})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Services.Ingestion)
}

func TestApplyEnv(t *testing.T) {
	t.Run("fills missing keys", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Embedding.Provider = domain.AIProviderOpenAI

		applyEnv(&settings, envMap(map[string]string{
			envDataDir:       "/srv/wilson",
			envLlamaParseKey: "llx-env",
			envOpenAIKey:     "sk-env",
		}))

		assert.Equal(t, "/srv/wilson", settings.DataDir)
		assert.Equal(t, "llx-env", settings.Parser.APIKey)
		assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	})

	t.Run("stored keys win", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Parser.APIKey = "llx-stored"
		settings.Embedding.Provider = domain.AIProviderOpenAI
		settings.Embedding.APIKey = "sk-stored"

		applyEnv(&settings, envMap(map[string]string{
			envLlamaParseKey: "llx-env",
			envOpenAIKey:     "sk-env",
		}))

		assert.Equal(t, "llx-stored", settings.Parser.APIKey)
		assert.Equal(t, "sk-stored", settings.Embedding.APIKey)
	})

	t.Run("ollama host", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Embedding.Provider = domain.AIProviderOllama

		applyEnv(&settings, envMap(map[string]string{envOllamaBaseURL: "http://gpu:11434"}))

		assert.Equal(t, "http://gpu:11434", settings.Embedding.BaseURL)
	})

	t.Run("openai key ignored for other providers", func(t *testing.T) {
		settings := domain.DefaultAppSettings()

		applyEnv(&settings, envMap(map[string]string{envOpenAIKey: "sk-env"}))

		assert.Empty(t, settings.Embedding.APIKey)
	})
}

func TestApp_CloseIsIdempotent(t *testing.T) {
	a, err := newApp(appOptions{
		ConfigDir: t.TempDir(),
		Env:       envMap(map[string]string{envDataDir: t.TempDir()}),
	})
	require.NoError(t, err)

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
}
