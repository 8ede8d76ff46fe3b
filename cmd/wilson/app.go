package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/parser"
	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/wilson-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/core/services"
	"github.com/custodia-labs/wilson-cli/internal/logger"
	"github.com/custodia-labs/wilson-cli/internal/postprocessors"
)

// Environment variables read at startup. Keys found here take effect for
// the current process only and are never written to the config file.
//
//nolint:gosec // G101: environment variable names, not credentials.
const (
	envConfigDir     = "WILSON_CONFIG_DIR"
	envDataDir       = "WILSON_DATA_DIR"
	envEphemeral     = "WILSON_EPHEMERAL"
	envLlamaParseKey = "LLAMAPARSE_API_KEY"
	envOpenAIKey     = "OPENAI_API_KEY"
	envOllamaBaseURL = "OLLAMA_HOST"
)

type appOptions struct {
	// ConfigDir holds config.toml. Empty means ~/.wilson.
	ConfigDir string

	// Env looks up environment variables.
	Env func(key string) string
}

// app owns the wired services and the resources behind them.
type app struct {
	Services cli.Services

	store    *sqlite.Store
	index    driven.PassageIndex
	embedder driven.EmbeddingService
}

// newApp wires the application from the stored settings.
// Settings commands must keep working when the configured providers are
// broken, so a provider failure leaves the document services unset and
// is logged rather than returned.
func newApp(opts appOptions) (*app, error) {
	if opts.Env == nil {
		opts.Env = func(string) string { return "" }
	}

	// Ephemeral runs keep settings, ledger and index in memory and write
	// nothing to the config or data directory.
	ephemeral, _ := strconv.ParseBool(opts.Env(envEphemeral))

	fileStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	var configStore driven.ConfigStore = fileStore
	if ephemeral {
		configStore = memory.Snapshot(fileStore)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	a := &app{
		Services: cli.Services{Settings: settingsService},
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	applyEnv(settings, opts.Env)

	if err := a.wire(settings, ephemeral); err != nil {
		logger.Warn("Document services unavailable: %v", err)
		logger.Warn("Run 'wilson settings list' to review the configuration.")
		a.Close()
		a.Services = cli.Services{Settings: settingsService}
	}

	return a, nil
}

func (a *app) wire(settings *domain.AppSettings, ephemeral bool) error {
	docParser, err := parser.New(settings.Parser)
	if err != nil {
		return fmt.Errorf("parser: %w", err)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	chunker, err := registry.BuildPipeline(settings.Pipeline)
	if err != nil {
		return fmt.Errorf("chunker: %w", err)
	}

	a.embedder, err = ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	var (
		ledger   driven.DocumentLedger
		index    driven.PassageIndex
		location = "memory"
	)
	if ephemeral {
		ledger = memory.NewLedger()
		index, err = memory.NewPassageIndex(a.embedder, settings.Index.Metric)
	} else {
		a.store, err = sqlite.NewStore(settings.DataDir)
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		if err := a.store.CheckEmbedding(context.Background(), a.embedder.ModelName(), a.embedder.Dimensions()); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		ledger = a.store.Ledger()
		location = a.store.Path()
		index, err = a.store.PassageIndex(a.embedder, settings.Index.Metric)
	}
	if err != nil {
		return fmt.Errorf("passage index: %w", err)
	}
	a.index = index

	logger.Debug("Parser: %s, embedding: %s (%d dims), metric: %s, data: %s",
		docParser.Name(), a.embedder.ModelName(), a.embedder.Dimensions(), settings.Index.Metric, location)

	a.Services.Ingestion = services.NewIngestionService(ledger, docParser, chunker, index)
	a.Services.Clause = services.NewClauseService(index)
	a.Services.Document = services.NewDocumentService(ledger)
	a.Services.SupportedFile = parser.SupportedFile(settings.Parser)
	return nil
}

// Close releases the index, embedder and database.
func (a *app) Close() error {
	var errs []error
	if a.index != nil {
		errs = append(errs, a.index.Close())
		a.index = nil
	}
	if a.embedder != nil {
		errs = append(errs, a.embedder.Close())
		a.embedder = nil
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	return errors.Join(errs...)
}

// applyEnv fills settings from the environment. Stored values win over
// the environment for keys, so a key set with 'wilson settings set' is
// never shadowed by a stale .env file.
func applyEnv(settings *domain.AppSettings, env func(string) string) {
	if dir := env(envDataDir); dir != "" {
		settings.DataDir = dir
	}
	if key := env(envLlamaParseKey); key != "" && settings.Parser.APIKey == "" {
		settings.Parser.APIKey = key
	}
	if settings.Embedding.Provider == domain.AIProviderOpenAI && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = env(envOpenAIKey)
	}
	if settings.Embedding.Provider == domain.AIProviderOllama && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = env(envOllamaBaseURL)
	}
}
