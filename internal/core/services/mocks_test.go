package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

var errIndexDown = errors.New("index down")

// stubParser returns fixed pages and counts calls.
type stubParser struct {
	mu      sync.Mutex
	pages   []domain.Page
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (p *stubParser) Parse(_ context.Context, _ string) ([]domain.Page, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.started != nil {
		close(p.started)
	}
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return nil, p.err
	}
	pages := make([]domain.Page, len(p.pages))
	copy(pages, p.pages)
	return pages, nil
}

func (p *stubParser) Name() string { return "stub" }

func (p *stubParser) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// recordingIndex stores indexed passages and can fail on a given call.
type recordingIndex struct {
	mu       sync.Mutex
	passages []domain.Passage
	calls    int
	failOn   int
	hits     map[domain.ClauseType][]driven.IndexHit
	queryErr error
	queries  []driven.PassageFilter
	lastK    int
}

func (x *recordingIndex) Index(_ context.Context, passages []domain.Passage) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.calls++
	if x.failOn > 0 && x.calls == x.failOn {
		return errIndexDown
	}
	x.passages = append(x.passages, passages...)
	return nil
}

func (x *recordingIndex) Query(
	_ context.Context, queryText string, filter driven.PassageFilter, k int,
) ([]driven.IndexHit, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.queries = append(x.queries, filter)
	x.lastK = k
	if x.queryErr != nil {
		return nil, x.queryErr
	}
	for ct, hits := range x.hits {
		if ct.Query() == queryText {
			return hits, nil
		}
	}
	return nil, nil
}

func (x *recordingIndex) Close() error { return nil }

// stubLedger lets tests inject ledger failures.
type stubLedger struct {
	findErr   error
	insertErr error
	listErr   error
	inserted  []domain.Document
}

func (l *stubLedger) FindByName(_ context.Context, _ string) (*domain.Document, error) {
	if l.findErr != nil {
		return nil, l.findErr
	}
	return nil, domain.ErrNotFound
}

func (l *stubLedger) Insert(_ context.Context, doc domain.Document) error {
	if l.insertErr != nil {
		return l.insertErr
	}
	l.inserted = append(l.inserted, doc)
	return nil
}

func (l *stubLedger) List(_ context.Context) ([]domain.Document, error) {
	return l.inserted, l.listErr
}
