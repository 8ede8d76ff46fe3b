package mcp

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// mockClauseService is a mock implementation of driving.ClauseService.
type mockClauseService struct {
	candidates []domain.ClauseCandidate
	err        error
	lastType   domain.ClauseType
	lastDoc    string
	allCalled  bool
}

func (m *mockClauseService) Extract(
	_ context.Context, documentName string, clauseType domain.ClauseType,
) ([]domain.ClauseCandidate, error) {
	m.lastDoc = documentName
	m.lastType = clauseType
	return m.candidates, m.err
}

func (m *mockClauseService) ExtractAll(_ context.Context, documentName string) ([]domain.ClauseCandidate, error) {
	m.lastDoc = documentName
	m.allCalled = true
	return m.candidates, m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	result   *domain.IngestResult
	err      error
	lastPath string
	lastName string
}

func (m *mockIngestionService) Ingest(_ context.Context, path, name string) (*domain.IngestResult, error) {
	m.lastPath = path
	m.lastName = name
	return m.result, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}
