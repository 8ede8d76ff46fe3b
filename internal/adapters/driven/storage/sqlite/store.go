package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

const dbFileName = "wilson.db"

// Store owns the SQLite connection shared by the ledger and passage index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens wilson.db in dataDir, creating both when missing, and
// applies pending migrations. An empty dataDir means ~/.wilson/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".wilson", "data")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	s := &Store{db: db, path: path}

	scripts, err := migrations.Up()
	if err == nil {
		err = s.migrate(context.Background(), scripts)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ledger returns the document ledger backed by this store.
func (s *Store) Ledger() driven.DocumentLedger {
	return &ledger{store: s}
}

// PassageIndex returns a passage index backed by this store.
func (s *Store) PassageIndex(embedder driven.Embedder, metric domain.DistanceMetric) (*PassageIndex, error) {
	return newPassageIndex(s, embedder, metric)
}

// CheckEmbedding compares the embedding model and dimensions with the
// ones the stored passages were written with. An empty index adopts the
// given values; a populated one built with other values is rejected.
func (s *Store) CheckEmbedding(ctx context.Context, model string, dimensions int) error {
	var passages int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM passages").Scan(&passages); err != nil {
		return fmt.Errorf("count passages: %w", err)
	}

	if passages > 0 {
		storedModel, err := s.meta(ctx, "embedding.model")
		if err != nil {
			return err
		}
		storedDims, err := s.meta(ctx, "embedding.dimensions")
		if err != nil {
			return err
		}
		if storedModel != "" && (storedModel != model || storedDims != strconv.Itoa(dimensions)) {
			return fmt.Errorf(
				"%w: %s holds %d passages embedded with %s (%s dims), configured %s (%d dims); "+
					"use another data_dir or restore the embedding settings",
				domain.ErrInvalidInput, s.path, passages, storedModel, storedDims, model, dimensions)
		}
	}

	logger.Debug("Index embedding: %s (%d dims)", model, dimensions)
	return s.setMeta(ctx, map[string]string{
		"embedding.model":      model,
		"embedding.dimensions": strconv.Itoa(dimensions),
	})
}

func (s *Store) meta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read index_meta %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setMeta(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO index_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return fmt.Errorf("write index_meta %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// migrate applies, in order, each script newer than the recorded schema
// version. Every script runs in its own transaction with its version row.
func (s *Store) migrate(ctx context.Context, scripts []migrations.Migration) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").
		Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range scripts {
		if m.Version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		logger.Debug("Applied migration %s", m.Name)
	}
	return nil
}

func (s *Store) apply(ctx context.Context, m migrations.Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	return tx.Commit()
}

// Vectors are stored as little-endian float32 blobs.

func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
