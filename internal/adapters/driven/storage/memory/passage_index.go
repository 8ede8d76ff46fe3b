package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/vector"
)

// Ensure PassageIndex implements the interface.
var _ driven.PassageIndex = (*PassageIndex)(nil)

type indexedPassage struct {
	passage   domain.Passage
	embedding []float32
}

// PassageIndex is a brute-force in-memory passage index.
// Entries are kept in insertion order; writing an existing id replaces it.
type PassageIndex struct {
	mu       sync.RWMutex
	embedder driven.Embedder
	distance vector.DistanceFunc
	entries  []indexedPassage
	position map[string]int
}

// NewPassageIndex creates a new in-memory passage index.
func NewPassageIndex(embedder driven.Embedder, metric domain.DistanceMetric) (*PassageIndex, error) {
	distance, err := vector.ForMetric(metric)
	if err != nil {
		return nil, err
	}
	return &PassageIndex{
		embedder: embedder,
		distance: distance,
		position: make(map[string]int),
	}, nil
}

// Index embeds and stores the passages.
func (x *PassageIndex) Index(ctx context.Context, passages []domain.Passage) error {
	if len(passages) == 0 {
		return nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	embeddings, err := x.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding passages: %w", err)
	}
	if len(embeddings) != len(passages) {
		return fmt.Errorf("embedding passages: got %d vectors for %d passages", len(embeddings), len(passages))
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for i, p := range passages {
		entry := indexedPassage{passage: p, embedding: embeddings[i]}
		if pos, ok := x.position[p.ID]; ok {
			x.entries[pos] = entry
			continue
		}
		x.position[p.ID] = len(x.entries)
		x.entries = append(x.entries, entry)
	}
	return nil
}

// Query returns up to k passages matching filter, nearest first.
func (x *PassageIndex) Query(
	ctx context.Context, queryText string, filter driven.PassageFilter, k int,
) ([]driven.IndexHit, error) {
	query, err := x.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	x.mu.RLock()
	scored := make([]vector.Scored[domain.Passage], 0, len(x.entries))
	for _, e := range x.entries {
		if !filter.Matches(e.passage.Metadata) {
			continue
		}
		scored = append(scored, vector.Scored[domain.Passage]{
			Item:     e.passage,
			Distance: x.distance(query, e.embedding),
		})
	}
	x.mu.RUnlock()

	nearest := vector.Nearest(scored, k)
	hits := make([]driven.IndexHit, len(nearest))
	for i, s := range nearest {
		hits[i] = driven.IndexHit{Passage: s.Item, Distance: s.Distance}
	}
	return hits, nil
}

// Count returns the number of stored passages.
func (x *PassageIndex) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Close is a no-op.
func (x *PassageIndex) Close() error {
	return nil
}
