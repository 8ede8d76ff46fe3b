package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

var errEmbed = errors.New("embedding backend down")

// stubEmbedder maps known texts to fixed vectors; unknown texts embed to zero.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0}, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int              { return 2 }
func (e *stubEmbedder) ModelName() string            { return "stub" }
func (e *stubEmbedder) Ping(_ context.Context) error { return nil }
func (e *stubEmbedder) Close() error                 { return nil }

func setupTestIndex(t *testing.T, metric domain.DistanceMetric) *PassageIndex {
	t.Helper()
	store := setupTestStore(t)
	idx, err := store.PassageIndex(&stubEmbedder{vectors: map[string][]float32{
		"query": {1, 0},
		"near":  {1, 0},
		"mid":   {0.5, 0.5},
		"far":   {0, 1},
	}}, metric)
	require.NoError(t, err)
	return idx
}

func testPassage(doc string, page, ordinal int, text string, headings domain.HeadingPath) domain.Passage {
	return domain.Passage{
		ID:   domain.PassageID(doc, page, ordinal),
		Text: text,
		Metadata: domain.PassageMetadata{
			DocumentName: doc,
			PageNumber:   page,
			Ordinal:      ordinal,
			Headings:     headings,
		},
	}
}

func TestPassageIndex_InvalidMetric(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.PassageIndex(&stubEmbedder{}, "hamming")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPassageIndex_IndexAndQuery(t *testing.T) {
	idx := setupTestIndex(t, domain.DistanceL2)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, []domain.Passage{
		testPassage("msa.pdf", 1, 0, "far", domain.HeadingPath{}),
		testPassage("msa.pdf", 2, 0, "near", domain.HeadingPath{"Agreement", "Termination", ""}),
		testPassage("msa.pdf", 2, 1, "mid", domain.HeadingPath{}),
		testPassage("other.pdf", 1, 0, "near", domain.HeadingPath{}),
	}))

	hits, err := idx.Query(ctx, "query", driven.PassageFilter{DocumentName: "msa.pdf"}, 15)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "msa.pdf_id_2_0", hits[0].Passage.ID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-9)
	assert.Equal(t, domain.HeadingPath{"Agreement", "Termination", ""}, hits[0].Passage.Metadata.Headings)
	assert.Equal(t, 2, hits[0].Passage.Metadata.PageNumber)
	assert.Equal(t, "mid", hits[1].Passage.Text)
	assert.Equal(t, "far", hits[2].Passage.Text)
	for _, h := range hits {
		assert.Equal(t, "msa.pdf", h.Passage.Metadata.DocumentName)
	}
}

func TestPassageIndex_Query_Limit(t *testing.T) {
	idx := setupTestIndex(t, domain.DistanceCosine)
	ctx := context.Background()

	var passages []domain.Passage
	for i := 0; i < 20; i++ {
		passages = append(passages, testPassage("big.pdf", 1, i, "mid", domain.HeadingPath{}))
	}
	require.NoError(t, idx.Index(ctx, passages))

	hits, err := idx.Query(ctx, "query", driven.PassageFilter{DocumentName: "big.pdf"}, 15)
	require.NoError(t, err)
	assert.Len(t, hits, 15)

	n, err := idx.Count(ctx, "big.pdf")
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestPassageIndex_Index_OverwritesSameID(t *testing.T) {
	idx := setupTestIndex(t, domain.DistanceL2)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, []domain.Passage{testPassage("msa.pdf", 1, 0, "far", domain.HeadingPath{})}))
	require.NoError(t, idx.Index(ctx, []domain.Passage{testPassage("msa.pdf", 1, 0, "near", domain.HeadingPath{})}))

	n, err := idx.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := idx.Query(ctx, "query", driven.PassageFilter{}, 15)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "near", hits[0].Passage.Text)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-9)
}

func TestPassageIndex_EmbeddingFailure(t *testing.T) {
	store := setupTestStore(t)
	idx, err := store.PassageIndex(&stubEmbedder{err: errEmbed}, domain.DistanceL2)
	require.NoError(t, err)
	ctx := context.Background()

	err = idx.Index(ctx, []domain.Passage{testPassage("msa.pdf", 1, 0, "x", domain.HeadingPath{})})
	assert.ErrorIs(t, err, errEmbed)

	_, err = idx.Query(ctx, "query", driven.PassageFilter{}, 15)
	assert.ErrorIs(t, err, errEmbed)
}

func TestPassageIndex_Query_Empty(t *testing.T) {
	idx := setupTestIndex(t, domain.DistanceL2)

	hits, err := idx.Query(context.Background(), "query", driven.PassageFilter{DocumentName: "none.pdf"}, 15)

	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NoError(t, idx.Close())
}
