package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

// Ensure ClauseService implements the interface.
var _ driving.ClauseService = (*ClauseService)(nil)

// Retrieval policy defaults.
const (
	// DefaultCandidatePool is how many nearest passages are requested per archetype.
	DefaultCandidatePool = 15

	// DefaultMaxDistance is the inclusive relevance ceiling.
	DefaultMaxDistance = 1.1

	// DefaultMaxCandidates bounds the result for one archetype.
	DefaultMaxCandidates = 5
)

// ClauseService retrieves candidate passages for the clause archetypes.
//
// Candidates are ranked by position in the document (page, then passage id)
// rather than by distance, so results read in document order.
type ClauseService struct {
	index         driven.PassageIndex
	poolSize      int
	maxDistance   float64
	maxCandidates int
}

// ClauseOption configures the clause service.
type ClauseOption func(*ClauseService)

// WithCandidatePool sets how many passages are requested from the index.
func WithCandidatePool(k int) ClauseOption {
	return func(s *ClauseService) {
		if k > 0 {
			s.poolSize = k
		}
	}
}

// WithMaxDistance sets the inclusive relevance ceiling.
func WithMaxDistance(d float64) ClauseOption {
	return func(s *ClauseService) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithMaxCandidates sets the per-archetype result bound.
func WithMaxCandidates(n int) ClauseOption {
	return func(s *ClauseService) {
		if n > 0 {
			s.maxCandidates = n
		}
	}
}

// NewClauseService creates a new clause service.
func NewClauseService(index driven.PassageIndex, opts ...ClauseOption) *ClauseService {
	s := &ClauseService{
		index:         index,
		poolSize:      DefaultCandidatePool,
		maxDistance:   DefaultMaxDistance,
		maxCandidates: DefaultMaxCandidates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract returns at most maxCandidates passages of the document matching
// the archetype's description.
func (s *ClauseService) Extract(
	ctx context.Context, documentName string, clauseType domain.ClauseType,
) ([]domain.ClauseCandidate, error) {
	documentName = strings.TrimSpace(documentName)
	if documentName == "" {
		return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}
	if !clauseType.IsValid() {
		return nil, fmt.Errorf("%w: unknown clause type %q", domain.ErrInvalidInput, clauseType)
	}

	logger.Debug("Clause query: document=%q, type=%s, k=%d", documentName, clauseType, s.poolSize)

	hits, err := s.index.Query(ctx, clauseType.Query(),
		driven.PassageFilter{DocumentName: documentName}, s.poolSize)
	if err != nil {
		return nil, fmt.Errorf("query %s clauses: %w", clauseType, err)
	}

	candidates := make([]domain.ClauseCandidate, 0, len(hits))
	for _, hit := range hits {
		if hit.Distance > s.maxDistance {
			continue
		}
		candidates = append(candidates, domain.ClauseCandidate{
			Passage:    hit.Passage,
			Distance:   hit.Distance,
			ClauseType: clauseType,
		})
	}
	logger.Debug("%s: %d hits, %d within distance %.2f", clauseType, len(hits), len(candidates), s.maxDistance)

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].Metadata.PageNumber, candidates[j].Metadata.PageNumber
		if pi != pj {
			return pi < pj
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}

	unique := newOrderedSet[string, domain.ClauseCandidate](len(candidates))
	for _, c := range candidates {
		if !unique.Add(c.ID, c) {
			logger.Debug("%s: dropping duplicate passage %s", clauseType, c.ID)
		}
	}

	return unique.Values(), nil
}

// ExtractAll runs Extract for every archetype and concatenates the results
// in archetype order. The same passage may appear under several types.
func (s *ClauseService) ExtractAll(ctx context.Context, documentName string) ([]domain.ClauseCandidate, error) {
	logger.Section("Clause Extraction")
	defer logger.Timer("Clause extraction for " + documentName)()

	types := domain.ClauseTypes()
	perType := make([][]domain.ClauseCandidate, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, ct := range types {
		g.Go(func() error {
			candidates, err := s.Extract(gctx, documentName, ct)
			if err != nil {
				return err
			}
			perType[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.ClauseCandidate
	for i, candidates := range perType {
		logger.Info("%s: %d candidates", types[i], len(candidates))
		all = append(all, candidates...)
	}
	if all == nil {
		all = []domain.ClauseCandidate{}
	}

	return all, nil
}
