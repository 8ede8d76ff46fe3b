package driven

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// PassageProcessor transforms a page into passages.
// Processors are chained in a pipeline (e.g. heading split, id assignment).
type PassageProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a page and the passages produced so far.
	// A splitter receives nil and creates passages; later processors
	// receive and may modify them.
	Process(ctx context.Context, page PageInput, passages []domain.Passage) ([]domain.Passage, error)
}

// PageInput is a page together with its owning document's name.
type PageInput struct {
	DocumentName string
	Page         domain.Page
}

// PassagePipeline chains PassageProcessors. It is the chunker used by ingestion.
type PassagePipeline interface {
	// Process runs the page through all processors in order and returns
	// passages in reading order.
	Process(ctx context.Context, page PageInput) ([]domain.Passage, error)
}
