// Package postprocessors provides the page to passage processing pipeline.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.PassagePipeline = (*Pipeline)(nil)

// Pipeline chains multiple PassageProcessors and runs them in order.
type Pipeline struct {
	processors []driven.PassageProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PassageProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the page through all processors in order.
// The first processor receives nil passages and should create them.
// Subsequent processors receive and may modify the passages.
func (p *Pipeline) Process(ctx context.Context, page driven.PageInput) ([]domain.Passage, error) {
	if page.DocumentName == "" {
		return nil, fmt.Errorf("%w: page has no document name", domain.ErrInvalidInput)
	}

	var passages []domain.Passage

	for _, processor := range p.processors {
		var err error
		passages, err = processor.Process(ctx, page, passages)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return passages, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PassageProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, processor := range p.processors {
		names[i] = processor.Name()
	}
	return names
}
