package driving

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// ClauseService retrieves candidate passages for legal-clause archetypes.
type ClauseService interface {
	// Extract returns at most five candidates for one archetype.
	// An empty result is not an error.
	Extract(ctx context.Context, documentName string, clauseType domain.ClauseType) ([]domain.ClauseCandidate, error)

	// ExtractAll concatenates Extract over every archetype in presentation order.
	ExtractAll(ctx context.Context, documentName string) ([]domain.ClauseCandidate, error)
}
