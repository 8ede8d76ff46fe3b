// Package mcp serves wilson's clause retrieval to AI assistants over the
// Model Context Protocol, on stdio or the streamable HTTP transport.
package mcp

import (
	"errors"

	"github.com/custodia-labs/wilson-cli/internal/core/ports/driving"
)

// ErrMissingClauseService is returned when the clause service is not provided.
var ErrMissingClauseService = errors.New("mcp: clause service is required")

// Ports holds the services the tools and resources call. Only Clause is
// required; tools backed by a nil service answer with an error result.
type Ports struct {
	Clause    driving.ClauseService
	Ingestion driving.IngestionService
	Document  driving.DocumentService
}

// Validate reports a missing required service.
func (p *Ports) Validate() error {
	if p == nil || p.Clause == nil {
		return ErrMissingClauseService
	}
	return nil
}
