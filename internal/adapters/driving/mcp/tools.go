package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"absolute path of the document to ingest"`
	Name string `json:"name,omitempty" jsonschema:"unique document name (default: the file name)"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	Name            string `json:"name"`
	DocumentID      string `json:"document_id,omitempty"`
	Pages           int    `json:"pages"`
	AlreadyIngested bool   `json:"already_ingested"`
}

// ExtractInput is the input schema for the extract_clauses tool.
type ExtractInput struct {
	Document string `json:"document" jsonschema:"name of an ingested document"`
	Type     string `json:"type,omitempty" jsonschema:"clause type: Termination, Liability, Indemnification, Confidentiality or Copyright (default: all)"`
}

// ExtractOutput is the output schema for the extract_clauses tool.
type ExtractOutput struct {
	Clauses []ClauseOutput `json:"clauses"`
	Count   int            `json:"count"`
}

// ClauseOutput represents a single candidate clause.
type ClauseOutput struct {
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Page     int      `json:"page"`
	Headings []string `json:"headings,omitempty"`
	Text     string   `json:"text"`
	Distance float64  `json:"distance"`
}

// ListDocumentsInput is the (empty) input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents an ingested document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IngestedAt string `json:"ingested_at"`
}

var errServiceUnavailable = errors.New("mcp: service not available")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Parse, chunk and index a legal document so its clauses can be retrieved",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_clauses",
		Description: "Retrieve candidate passages for legal clause types in an ingested document",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents",
	}, s.handleListDocuments)
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingestion == nil {
		return nil, IngestOutput{}, errServiceUnavailable
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = filepath.Base(input.Path)
	}

	result, err := s.ports.Ingestion.Ingest(ctx, input.Path, name)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Name:            name,
		DocumentID:      result.DocumentID,
		Pages:           result.PagesProcessed,
		AlreadyIngested: result.AlreadyIngested,
	}, nil
}

// handleExtract handles the extract_clauses tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	var (
		candidates []domain.ClauseCandidate
		err        error
	)
	if strings.TrimSpace(input.Type) == "" {
		candidates, err = s.ports.Clause.ExtractAll(ctx, input.Document)
	} else {
		ct, parseErr := domain.ParseClauseType(input.Type)
		if parseErr != nil {
			return nil, ExtractOutput{}, parseErr
		}
		candidates, err = s.ports.Clause.Extract(ctx, input.Document, ct)
	}
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	output := ExtractOutput{
		Clauses: make([]ClauseOutput, len(candidates)),
		Count:   len(candidates),
	}
	for i := range candidates {
		output.Clauses[i] = ClauseOutput{
			Type:     candidates[i].ClauseType.String(),
			ID:       candidates[i].ID,
			Page:     candidates[i].Metadata.PageNumber,
			Headings: candidates[i].Metadata.Headings.Labels(),
			Text:     candidates[i].Text,
			Distance: candidates[i].Distance,
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, errServiceUnavailable
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	return nil, ListDocumentsOutput{
		Documents: toDocumentOutputs(docs),
		Count:     len(docs),
	}, nil
}

func toDocumentOutputs(docs []domain.Document) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i, d := range docs {
		out[i] = DocumentOutput{
			ID:         d.ID,
			Name:       d.Name,
			IngestedAt: d.IngestedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return out
}
