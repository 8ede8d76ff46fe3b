package postprocessors

import (
	"fmt"
	"maps"
	"slices"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// BuilderFunc creates a processor from its section of the pipeline config.
type BuilderFunc func(cfg map[string]any) (driven.PassageProcessor, error)

// Registry maps processor names, as written in the pipeline config, to
// their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// Register adds or replaces a builder.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates the named processor.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PassageProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor %q (known: %v)", domain.ErrInvalidInput, name, r.Names())
	}
	return builder(cfg)
}

func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.builders))
}

// BuildPipeline builds the processors of cfg in order. The first one must
// split the page into passages; a processor may appear only once.
func (r *Registry) BuildPipeline(cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 {
		return nil, fmt.Errorf("%w: pipeline has no processors", domain.ErrInvalidInput)
	}

	pipeline := NewPipeline()
	seen := make(map[string]bool, len(cfg.Processors))
	for _, name := range cfg.Processors {
		if seen[name] {
			return nil, fmt.Errorf("%w: processor %q listed twice", domain.ErrInvalidInput, name)
		}
		seen[name] = true

		processor, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
		pipeline.Add(processor)
	}
	return pipeline, nil
}
