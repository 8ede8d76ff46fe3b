package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/vector"
)

// PassageIndex implements driven.PassageIndex over the passages table.
// Queries load the candidate rows of the filtered document and rank them
// in process.
type PassageIndex struct {
	store    *Store
	embedder driven.Embedder
	distance vector.DistanceFunc
}

var _ driven.PassageIndex = (*PassageIndex)(nil)

func newPassageIndex(s *Store, embedder driven.Embedder, metric domain.DistanceMetric) (*PassageIndex, error) {
	distance, err := vector.ForMetric(metric)
	if err != nil {
		return nil, err
	}
	return &PassageIndex{store: s, embedder: embedder, distance: distance}, nil
}

// Index embeds and upserts the passages in one transaction.
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

	tx, err := x.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO passages (id, document_name, page_number, ordinal, text, headings, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_name = excluded.document_name,
			page_number = excluded.page_number,
			ordinal = excluded.ordinal,
			text = excluded.text,
			headings = excluded.headings,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, p := range passages {
		headingsJSON, err := json.Marshal(p.Metadata.Headings)
		if err != nil {
			return fmt.Errorf("marshalling headings: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Metadata.DocumentName, p.Metadata.PageNumber,
			p.Metadata.Ordinal, p.Text, string(headingsJSON), float32SliceToBytes(embeddings[i]), now); err != nil {
			return fmt.Errorf("saving passage %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
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

	rows, err := x.store.db.QueryContext(ctx, `
		SELECT id, document_name, page_number, ordinal, text, headings, embedding
		FROM passages
		WHERE ? = '' OR document_name = ?
	`, filter.DocumentName, filter.DocumentName)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var scored []vector.Scored[domain.Passage]
	for rows.Next() {
		var p domain.Passage
		var headingsJSON string
		var blob []byte
		if err := rows.Scan(&p.ID, &p.Metadata.DocumentName, &p.Metadata.PageNumber,
			&p.Metadata.Ordinal, &p.Text, &headingsJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		if err := json.Unmarshal([]byte(headingsJSON), &p.Metadata.Headings); err != nil {
			return nil, fmt.Errorf("unmarshalling headings of %s: %w", p.ID, err)
		}
		scored = append(scored, vector.Scored[domain.Passage]{
			Item:     p,
			Distance: x.distance(query, bytesToFloat32Slice(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passages: %w", err)
	}

	nearest := vector.Nearest(scored, k)
	hits := make([]driven.IndexHit, len(nearest))
	for i, s := range nearest {
		hits[i] = driven.IndexHit{Passage: s.Item, Distance: s.Distance}
	}
	return hits, nil
}

// Count returns the number of stored passages for a document, or all
// passages when documentName is empty.
func (x *PassageIndex) Count(ctx context.Context, documentName string) (int, error) {
	var n int
	row := x.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM passages WHERE ? = '' OR document_name = ?", documentName, documentName)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting passages: %w", err)
	}
	return n, nil
}

// Close is a no-op; the Store owns the connection.
func (x *PassageIndex) Close() error {
	return nil
}
