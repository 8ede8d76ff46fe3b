package driving

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// IngestionService parses, chunks and indexes documents.
type IngestionService interface {
	// Ingest processes the document at path under the given unique name.
	// Re-ingesting a known name is a successful no-op reported through
	// IngestResult.AlreadyIngested.
	Ingest(ctx context.Context, path, name string) (*domain.IngestResult, error)
}
