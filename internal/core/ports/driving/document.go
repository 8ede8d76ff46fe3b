package driving

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// DocumentService exposes the ledger of ingested documents.
type DocumentService interface {
	// List returns all ingested documents, oldest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get returns the ingested document with the given name.
	Get(ctx context.Context, name string) (*domain.Document, error)
}
