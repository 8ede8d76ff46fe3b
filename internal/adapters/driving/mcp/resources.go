package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for wilson resources.
	uriScheme = "wilson://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing ingested documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all ingested documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for the candidate clauses of one document.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{name}/clauses",
		Name:        "document-clauses",
		Description: "Candidate clauses of every type for an ingested document",
		MIMEType:    "application/json",
	}, s.handleClausesResource)
}

// handleDocumentsResource returns the list of ingested documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResource(req.Params.URI, []DocumentOutput{})
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return jsonResource(req.Params.URI, toDocumentOutputs(docs))
}

// handleClausesResource returns all candidate clauses for a document.
func (s *Server) handleClausesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractDocumentName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, output, err := s.handleExtract(ctx, nil, ExtractInput{Document: name})
	if err != nil {
		return nil, fmt.Errorf("extracting clauses: %w", err)
	}

	return jsonResource(req.Params.URI, output.Clauses)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentName extracts the document name from a URI like
// wilson://documents/{name}/clauses. The name may be percent-encoded.
func extractDocumentName(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/clauses"

	if len(uri) <= len(prefix)+len(suffix) ||
		!strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}

	name := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}
