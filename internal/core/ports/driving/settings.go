package driving

import "github.com/custodia-labs/wilson-cli/internal/core/domain"

// SettingsService reads and writes the persisted configuration. Setters
// validate their arguments and return domain.ErrInvalidInput when they
// are rejected.
type SettingsService interface {
	// Get merges the stored values over the defaults.
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error
	GetDefaults() domain.AppSettings

	// SetParserProvider keeps a previously stored key when apiKey is empty.
	SetParserProvider(provider domain.ParserProvider, apiKey string) error

	// SetEmbeddingProvider also resets the dimensions to the model's size.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	SetMetric(metric domain.DistanceMetric) error

	// Validate checks the configured parser and embedding provider can be used.
	Validate() error
}
