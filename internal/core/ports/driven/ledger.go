package driven

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// DocumentLedger records which documents have been ingested, keyed by name.
// Backed by SQLite; the table is created idempotently at startup.
type DocumentLedger interface {
	// FindByName returns the document with the given name.
	// Returns domain.ErrNotFound if it has never been ingested.
	FindByName(ctx context.Context, name string) (*domain.Document, error)

	// Insert records a newly ingested document.
	// Returns domain.ErrAlreadyExists if the name is already recorded.
	Insert(ctx context.Context, doc domain.Document) error

	// List returns all ingested documents, oldest first.
	List(ctx context.Context) ([]domain.Document, error)
}
