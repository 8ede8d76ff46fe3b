package driven

import "github.com/custodia-labs/wilson-cli/internal/core/domain"

// AIConfigValidator checks embedding settings against the live provider
// before they are relied on. An unconfigured or unreachable provider
// yields an error wrapping domain.ErrEmbeddingUnavailable.
type AIConfigValidator interface {
	ValidateEmbedding(settings *domain.EmbeddingSettings) error
}
