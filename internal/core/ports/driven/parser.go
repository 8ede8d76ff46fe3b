package driven

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// DocumentParser converts a document on disk into per-page structured text.
// Parsers fully buffer the document and return all pages at once.
type DocumentParser interface {
	// Parse returns the document's pages ordered by page number.
	Parse(ctx context.Context, path string) ([]domain.Page, error)

	// Name returns the parser name for logging.
	Name() string
}
