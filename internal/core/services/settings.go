package services

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir         = "data_dir"
	keyParserProvider  = "parser.provider"
	keyParserBaseURL   = "parser.base_url"
	keyParserAPIKey    = "parser.api_key"
	keyParserRPS       = "parser.requests_per_second"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedRPS        = "embedding.requests_per_second"
	keyIndexMetric     = "index.metric"
	keyServerAddr      = "server.addr"
	keyServerOrigins   = "server.allowed_origins"
	keyHeadingMaxLevel = "pipeline.heading.max_level"
)

const (
	defaultOllamaURL     = "http://localhost:11434"
	defaultLlamaParseAPI = "https://api.cloud.llamaindex.ai"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		DataDir: s.configStore.GetString(keyDataDir),
		Parser: domain.ParserSettings{
			Provider:          s.getParserProvider(defaults.Parser.Provider),
			BaseURL:           s.configStore.GetString(keyParserBaseURL),
			APIKey:            s.configStore.GetString(keyParserAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(keyParserRPS),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.configStore.GetString(keyEmbedModel),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.configStore.GetInt(keyEmbedDims),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
		},
		Index: domain.IndexSettings{
			Metric: s.getMetric(defaults.Index.Metric),
		},
		Server: domain.ServerSettings{
			Addr:           s.getString(keyServerAddr, defaults.Server.Addr),
			AllowedOrigins: s.getStringSlice(keyServerOrigins, defaults.Server.AllowedOrigins),
		},
		Pipeline: defaults.Pipeline,
	}

	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}

	if level := s.configStore.GetInt(keyHeadingMaxLevel); level > 0 {
		settings.Pipeline.ProcessorConfigs["heading"] = map[string]any{"max_level": level}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings.DataDir != "" {
		if err := s.configStore.Set(keyDataDir, settings.DataDir); err != nil {
			return fmt.Errorf("save data_dir: %w", err)
		}
	}

	// Parser settings
	if err := s.configStore.Set(keyParserProvider, settings.Parser.Provider.String()); err != nil {
		return fmt.Errorf("save parser provider: %w", err)
	}
	if err := s.configStore.Set(keyParserBaseURL, settings.Parser.BaseURL); err != nil {
		return fmt.Errorf("save parser base_url: %w", err)
	}
	if settings.Parser.APIKey != "" {
		if err := s.configStore.Set(keyParserAPIKey, settings.Parser.APIKey); err != nil {
			return fmt.Errorf("save parser api_key: %w", err)
		}
	}
	if settings.Parser.RequestsPerSecond > 0 {
		if err := s.configStore.Set(keyParserRPS, settings.Parser.RequestsPerSecond); err != nil {
			return fmt.Errorf("save parser requests_per_second: %w", err)
		}
	}

	// Embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedDims, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}
	if settings.Embedding.RequestsPerSecond > 0 {
		if err := s.configStore.Set(keyEmbedRPS, settings.Embedding.RequestsPerSecond); err != nil {
			return fmt.Errorf("save embedding requests_per_second: %w", err)
		}
	}

	// Index and server settings
	if err := s.configStore.Set(keyIndexMetric, settings.Index.Metric.String()); err != nil {
		return fmt.Errorf("save index metric: %w", err)
	}
	if err := s.configStore.Set(keyServerAddr, settings.Server.Addr); err != nil {
		return fmt.Errorf("save server addr: %w", err)
	}
	if err := s.configStore.Set(keyServerOrigins, settings.Server.AllowedOrigins); err != nil {
		return fmt.Errorf("save server allowed_origins: %w", err)
	}

	if level, ok := settings.Pipeline.GetProcessorConfig("heading")["max_level"].(int); ok && level > 0 {
		if err := s.configStore.Set(keyHeadingMaxLevel, level); err != nil {
			return fmt.Errorf("save heading max_level: %w", err)
		}
	}

	return nil
}

// SetParserProvider configures the document parser.
func (s *SettingsService) SetParserProvider(provider domain.ParserProvider, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: parser provider %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Keep a previously stored key when none is given
	if apiKey == "" {
		apiKey = settings.Parser.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings.Parser.Provider = provider
	settings.Parser.APIKey = apiKey
	switch provider {
	case domain.ParserProviderLlamaParse:
		if settings.Parser.BaseURL == "" {
			settings.Parser.BaseURL = defaultLlamaParseAPI
		}
	default:
		settings.Parser.BaseURL = ""
	}

	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	switch provider {
	case domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	default:
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Vector size follows the model; stored passages must be re-ingested
	// after a change.
	settings.Embedding.Dimensions = domain.EmbeddingDimensions()[settings.Embedding.Model]

	return s.Save(settings)
}

// SetMetric configures the passage index distance metric.
func (s *SettingsService) SetMetric(metric domain.DistanceMetric) error {
	if !metric.IsValid() {
		return fmt.Errorf("%w: distance metric %s", domain.ErrInvalidInput, metric)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Index.Metric = metric

	return s.Save(settings)
}

// Validate checks that the configured providers are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Parser.IsConfigured() {
		return fmt.Errorf("parser %q is not configured", settings.Parser.Provider.Description())
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider.Description())
	}
	if !settings.Index.Metric.IsValid() {
		return fmt.Errorf("invalid distance metric: %s", settings.Index.Metric)
	}

	if s.aiValidator == nil {
		return nil
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getParserProvider(defaultVal domain.ParserProvider) domain.ParserProvider {
	provider := domain.ParserProvider(s.configStore.GetString(keyParserProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getMetric(defaultVal domain.DistanceMetric) domain.DistanceMetric {
	metric := domain.DistanceMetric(s.configStore.GetString(keyIndexMetric))
	if !metric.IsValid() {
		return defaultVal
	}
	return metric
}
