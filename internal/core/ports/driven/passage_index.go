package driven

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// PassageIndex stores passages with their embeddings and answers
// nearest-neighbour queries restricted by metadata.
type PassageIndex interface {
	// Index embeds and stores passages. A passage whose ID is already
	// present overwrites the stored entry.
	Index(ctx context.Context, passages []domain.Passage) error

	// Query embeds queryText and returns up to k passages matching filter,
	// nearest first. Ties in distance have no defined order.
	Query(ctx context.Context, queryText string, filter PassageFilter, k int) ([]IndexHit, error)

	// Close releases resources.
	Close() error
}

// PassageFilter is an exact-match metadata predicate.
type PassageFilter struct {
	// DocumentName restricts results to passages of one document.
	DocumentName string
}

// Matches reports whether the metadata satisfies the filter.
// An empty field matches everything.
func (f PassageFilter) Matches(meta domain.PassageMetadata) bool {
	return f.DocumentName == "" || f.DocumentName == meta.DocumentName
}

// IndexHit is a passage returned by a query with its distance.
type IndexHit struct {
	Passage domain.Passage

	// Distance is the dissimilarity between query and passage; lower is closer.
	Distance float64
}
