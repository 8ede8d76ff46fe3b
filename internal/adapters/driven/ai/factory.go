// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"fmt"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/embedding/hash"
	ollamaembed "github.com/custodia-labs/wilson-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/wilson-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/embedding/throttle"
	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// CreateEmbeddingService creates the embedding service selected by settings,
// throttled when a request rate is configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider is not configured", domain.ErrEmbeddingUnavailable)
	}

	var svc driven.EmbeddingService
	switch settings.Provider {
	case domain.AIProviderHash:
		svc = hash.NewEmbeddingService(dimensionsFor(settings, hash.DefaultDimensions))

	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensionsFor(settings, ollamaembed.DefaultDimensions),
		})

	case domain.AIProviderOpenAI:
		openai, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensionsFor(settings, 0),
		})
		if err != nil {
			return nil, err
		}
		svc = openai

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}

	return throttle.Wrap(svc, settings.RequestsPerSecond), nil
}

// dimensionsFor picks the explicit setting, then the known model size,
// then fallback.
func dimensionsFor(settings *domain.EmbeddingSettings, fallback int) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	if d, ok := domain.EmbeddingDimensions()[settings.Model]; ok {
		return d
	}
	return fallback
}
