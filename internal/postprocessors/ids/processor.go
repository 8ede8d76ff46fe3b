// Package ids provides a processor that assigns deterministic passage ids.
package ids

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PassageProcessor = (*Processor)(nil)

// Processor numbers passages by their position within the page and derives
// ids of the form <document>_id_<page>_<ordinal>. Running it again on its
// own output is a no-op.
type Processor struct{}

// New creates a new id assignment processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "assign_ids"
}

// Process stamps owner, page, ordinal and id on every passage.
func (p *Processor) Process(
	_ context.Context, in driven.PageInput, passages []domain.Passage,
) ([]domain.Passage, error) {
	for i := range passages {
		passages[i].Metadata.DocumentName = in.DocumentName
		passages[i].Metadata.PageNumber = in.Page.Number
		passages[i].Metadata.Ordinal = i
		passages[i].ID = domain.PassageID(in.DocumentName, in.Page.Number, i)
	}
	return passages, nil
}
