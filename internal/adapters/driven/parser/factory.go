// Package parser selects the document parser configured for the application.
package parser

import (
	"fmt"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/parser/llamaparse"
	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/parser/local"
	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// New creates the parser selected by settings.
func New(settings domain.ParserSettings) (driven.DocumentParser, error) {
	switch settings.Provider {
	case domain.ParserProviderLocal, "":
		return local.New(), nil
	case domain.ParserProviderLlamaParse:
		p, err := llamaparse.New(llamaparse.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			RequestsPerSecond: settings.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: parser provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// SupportedFile returns a filter for files the selected parser accepts.
// Remote parsers decide for themselves, so nil is returned for them.
func SupportedFile(settings domain.ParserSettings) func(path string) bool {
	switch settings.Provider {
	case domain.ParserProviderLocal, "":
		return local.Supports
	default:
		return nil
	}
}
