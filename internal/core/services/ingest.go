package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService orchestrates parse, chunk and index for one document,
// guarded by the ledger so each document name is processed once.
//
// The ledger entry is written after a successful parse and before any
// passage is indexed. A failure while indexing leaves the document marked
// as ingested with only some of its passages in the index.
type IngestionService struct {
	ledger  driven.DocumentLedger
	parser  driven.DocumentParser
	chunker driven.PassagePipeline
	index   driven.PassageIndex

	// inflight collapses concurrent calls for the same name in this process.
	inflight singleflight.Group

	now   func() time.Time
	newID func() string
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	ledger driven.DocumentLedger,
	parser driven.DocumentParser,
	chunker driven.PassagePipeline,
	index driven.PassageIndex,
) *IngestionService {
	return &IngestionService{
		ledger:  ledger,
		parser:  parser,
		chunker: chunker,
		index:   index,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

// Ingest processes the document at path under the given unique name.
// Returns the number of pages processed; a name already in the ledger
// returns immediately with AlreadyIngested set. Once started, the work runs
// to completion even if ctx is cancelled; ctx only bounds the wait.
func (s *IngestionService) Ingest(ctx context.Context, path, name string) (*domain.IngestResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: document path is required", domain.ErrInvalidInput)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}

	// Shared work is detached from every caller's cancellation.
	work := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(name, func() (any, error) {
		return s.ingest(work, path, name)
	})

	select {
	case <-ctx.Done():
		logger.Debug("Caller stopped waiting for %q; ingestion continues", name)
		return nil, fmt.Errorf("ingest %s: %w", name, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("Ingestion of %q shared with a concurrent call", name)
		}
		result := *res.Val.(*domain.IngestResult)
		return &result, nil
	}
}

func (s *IngestionService) ingest(ctx context.Context, path, name string) (*domain.IngestResult, error) {
	logger.Section("Ingestion")
	logger.Debug("Document: %q, path: %s, parser: %s", name, path, s.parser.Name())
	defer logger.Timer("Ingestion of " + name)()

	existing, err := s.ledger.FindByName(ctx, name)
	switch {
	case err == nil:
		logger.Info("Document %q already ingested (id %s), skipping", name, existing.ID)
		return &domain.IngestResult{AlreadyIngested: true}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check ledger: %w", err)
	}

	parseDone := logger.Timer("Parsing " + name)
	pages, err := s.parser.Parse(ctx, path)
	parseDone()
	if err != nil {
		logger.Warn("Parsing %q failed: %v", name, err)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrParseFailure, name, err)
	}
	logger.Info("Parsed document %q with %d pages", name, len(pages))

	doc := domain.Document{
		ID:         s.newID(),
		Name:       name,
		IngestedAt: s.now(),
	}
	if err := s.ledger.Insert(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Another process recorded the name between lookup and insert.
			logger.Info("Document %q recorded concurrently, skipping", name)
			return &domain.IngestResult{AlreadyIngested: true}, nil
		}
		return nil, fmt.Errorf("record document: %w", err)
	}
	logger.Debug("Recorded document %q as %s", name, doc.ID)

	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Number < pages[j].Number
	})

	processed := 0
	for _, page := range pages {
		passages, err := s.chunker.Process(ctx, driven.PageInput{DocumentName: name, Page: page})
		if err != nil {
			return nil, fmt.Errorf("chunk page %d: %w", page.Number, err)
		}
		logger.Debug("Page %d: %d passages", page.Number, len(passages))

		if len(passages) > 0 {
			if err := s.index.Index(ctx, passages); err != nil {
				logger.Warn("Indexing page %d of %q failed: %v", page.Number, name, err)
				return nil, fmt.Errorf("%w: %s page %d: %w", domain.ErrIndexWrite, name, page.Number, err)
			}
		}
		processed++
	}

	logger.Info("Ingested %q: %d pages", name, processed)

	return &domain.IngestResult{
		DocumentID:     doc.ID,
		PagesProcessed: processed,
	}, nil
}
