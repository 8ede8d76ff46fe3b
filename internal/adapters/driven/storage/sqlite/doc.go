// Package sqlite provides SQLite-backed implementations of the document
// ledger and the passage index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Both stores share one database connection:
//
//   - DocumentLedger: the file_metadata table, one row per ingested name
//   - PassageIndex: the passages table, embeddings stored as float32 blobs
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory and applied when the store is opened.
//
// # Data Location
//
// By default, the database is stored at ~/.wilson/data/wilson.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode.
package sqlite
