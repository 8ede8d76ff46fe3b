package postprocessors

import (
	"fmt"
	"math"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/postprocessors/heading"
	"github.com/custodia-labs/wilson-cli/internal/postprocessors/ids"
)

// RegisterDefaults registers the heading splitter and the id assigner.
func RegisterDefaults(r *Registry) {
	r.Register("heading", buildHeading)
	r.Register("assign_ids", func(map[string]any) (driven.PassageProcessor, error) {
		return ids.New(), nil
	})
}

// buildHeading reads max_level, the deepest heading level that starts a
// passage.
func buildHeading(cfg map[string]any) (driven.PassageProcessor, error) {
	level, err := intOption(cfg, "max_level")
	if err != nil {
		return nil, err
	}
	if level == 0 {
		return heading.New(), nil
	}
	if level < 1 || level > domain.MaxHeadingLevel {
		return nil, fmt.Errorf("%w: heading max_level %d outside 1-%d",
			domain.ErrInvalidInput, level, domain.MaxHeadingLevel)
	}
	return heading.New(heading.WithMaxLevel(level)), nil
}

// intOption reads an integer that TOML or JSON may have decoded as int,
// int64 or float64. A missing key is 0.
func intOption(cfg map[string]any, key string) (int, error) {
	switch v := cfg[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("%w: %s must be an integer, got %v", domain.ErrInvalidInput, key, cfg[key])
}
