package domain

const unknownDescription = "Unknown"

// ParserProvider identifies the service that turns raw documents into pages.
type ParserProvider string

// Available parser providers.
const (
	// ParserProviderLocal parses markdown, text and PDF files in-process.
	ParserProviderLocal ParserProvider = "local"

	// ParserProviderLlamaParse uses the LlamaParse cloud API.
	ParserProviderLlamaParse ParserProvider = "llamaparse"
)

// IsValid returns true if the parser provider is recognised.
func (p ParserProvider) IsValid() bool {
	switch p {
	case ParserProviderLocal, ParserProviderLlamaParse:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p ParserProvider) RequiresAPIKey() bool {
	return p == ParserProviderLlamaParse
}

// String returns the string representation.
func (p ParserProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p ParserProvider) Description() string {
	switch p {
	case ParserProviderLocal:
		return "Local (markdown, text, PDF)"
	case ParserProviderLlamaParse:
		return "LlamaParse (cloud)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available embedding providers.
const (
	// AIProviderHash is the deterministic offline feature-hashing embedder.
	AIProviderHash AIProvider = "hash"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHash, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs without a cloud service.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHash
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHash:
		return "Feature hashing (offline)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// DistanceMetric selects how the passage index scores similarity.
type DistanceMetric string

// Available distance metrics.
const (
	// DistanceL2 is squared euclidean distance.
	DistanceL2 DistanceMetric = "l2"

	// DistanceCosine is one minus cosine similarity.
	DistanceCosine DistanceMetric = "cosine"
)

// IsValid returns true if the metric is recognised.
func (m DistanceMetric) IsValid() bool {
	return m == DistanceL2 || m == DistanceCosine
}

// String returns the string representation.
func (m DistanceMetric) String() string {
	return string(m)
}

// ParserSettings holds parser configuration.
type ParserSettings struct {
	// Provider is the parser service provider.
	Provider ParserProvider

	// BaseURL is the API endpoint (for LlamaParse).
	BaseURL string

	// APIKey is the API key (for LlamaParse).
	APIKey string

	// RequestsPerSecond throttles calls to the parser API. Zero means default.
	RequestsPerSecond float64
}

// IsConfigured returns true if the parser provider is set up.
func (p ParserSettings) IsConfigured() bool {
	if !p.Provider.IsValid() {
		return false
	}
	return !p.Provider.RequiresAPIKey() || p.APIKey != ""
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's vector size when non-zero.
	Dimensions int

	// RequestsPerSecond throttles calls to the embedding API. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds passage index configuration.
type IndexSettings struct {
	// Metric is the distance metric used for queries.
	Metric DistanceMetric
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// AllowedOrigins are the CORS origins permitted to call the API.
	AllowedOrigins []string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir is where the ledger and passage index live.
	DataDir string

	Parser    ParserSettings
	Embedding EmbeddingSettings
	Index     IndexSettings
	Server    ServerSettings
	Pipeline  PipelineConfig
}

// DefaultAppSettings returns settings that work offline out of the box.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Parser: ParserSettings{
			Provider: ParserProviderLocal,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderHash,
		},
		Index: IndexSettings{
			Metric: DistanceL2,
		},
		Server: ServerSettings{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Pipeline: DefaultPipelineConfig(),
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHash,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHash:   "hash-384",
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"hash-384": 384,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds passage processor pipeline configuration.
// Uses generic map-based config so new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig splits on all three heading levels and assigns
// deterministic passage ids.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"heading", "assign_ids"},
		ProcessorConfigs: map[string]map[string]any{
			"heading": {
				"max_level": MaxHeadingLevel,
			},
		},
	}
}
