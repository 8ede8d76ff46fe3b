package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// ledger implements driven.DocumentLedger over the file_metadata table.
type ledger struct {
	store *Store
}

var _ driven.DocumentLedger = (*ledger)(nil)

// FindByName returns the document recorded under name.
func (l *ledger) FindByName(ctx context.Context, name string) (*domain.Document, error) {
	row := l.store.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM file_metadata WHERE name = ?
	`, name)

	var doc domain.Document
	var createdAt sql.NullTime
	if err := row.Scan(&doc.ID, &doc.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if createdAt.Valid {
		doc.IngestedAt = createdAt.Time
	}
	return &doc, nil
}

// Insert records a document. A name already present yields ErrAlreadyExists.
func (l *ledger) Insert(ctx context.Context, doc domain.Document) error {
	res, err := l.store.db.ExecContext(ctx, `
		INSERT INTO file_metadata (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, doc.ID, doc.Name, doc.IngestedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// List returns all documents, oldest first.
func (l *ledger) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM file_metadata ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var doc domain.Document
		var createdAt sql.NullTime
		if err := rows.Scan(&doc.ID, &doc.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if createdAt.Valid {
			doc.IngestedAt = createdAt.Time
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}
