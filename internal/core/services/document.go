package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes the ledger of ingested documents.
type DocumentService struct {
	ledger driven.DocumentLedger
}

// NewDocumentService creates a new document service.
func NewDocumentService(ledger driven.DocumentLedger) *DocumentService {
	return &DocumentService{ledger: ledger}
}

// List returns all ingested documents, oldest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Get returns the ingested document with the given name.
func (s *DocumentService) Get(ctx context.Context, name string) (*domain.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}
	return s.ledger.FindByName(ctx, name)
}
