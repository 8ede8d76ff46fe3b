package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.DocumentLedger = (*Ledger)(nil)

// Ledger is an in-memory implementation of driven.DocumentLedger.
type Ledger struct {
	mu     sync.RWMutex
	byName map[string]domain.Document
	order  []string
}

// NewLedger creates a new in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		byName: make(map[string]domain.Document),
	}
}

// FindByName returns the document recorded under name.
func (l *Ledger) FindByName(_ context.Context, name string) (*domain.Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	doc, ok := l.byName[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// Insert records a document. Names are unique.
func (l *Ledger) Insert(_ context.Context, doc domain.Document) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byName[doc.Name]; ok {
		return domain.ErrAlreadyExists
	}
	l.byName[doc.Name] = doc
	l.order = append(l.order, doc.Name)
	return nil
}

// List returns all documents, oldest first.
func (l *Ledger) List(_ context.Context) ([]domain.Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	docs := make([]domain.Document, 0, len(l.order))
	for _, name := range l.order {
		docs = append(docs, l.byName[name])
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].IngestedAt.Before(docs[j].IngestedAt)
	})
	return docs, nil
}
