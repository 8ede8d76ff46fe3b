package httpapi

import (
	"context"
	"os"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

type mockClauseService struct {
	candidates []domain.ClauseCandidate
	err        error
	lastDoc    string
}

func (m *mockClauseService) Extract(
	_ context.Context, documentName string, _ domain.ClauseType,
) ([]domain.ClauseCandidate, error) {
	m.lastDoc = documentName
	return m.candidates, m.err
}

func (m *mockClauseService) ExtractAll(_ context.Context, documentName string) ([]domain.ClauseCandidate, error) {
	m.lastDoc = documentName
	return m.candidates, m.err
}

// mockIngestionService records the staged upload as seen during Ingest.
type mockIngestionService struct {
	result      *domain.IngestResult
	err         error
	lastPath    string
	lastName    string
	lastContent string
}

func (m *mockIngestionService) Ingest(_ context.Context, path, name string) (*domain.IngestResult, error) {
	m.lastPath = path
	m.lastName = name
	if data, err := os.ReadFile(path); err == nil {
		m.lastContent = string(data)
	}
	return m.result, m.err
}

type mockDocumentService struct {
	documents []domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}
