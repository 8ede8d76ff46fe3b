package domain

import "time"

// Document records that a legal document has been ingested.
// It is created once, on first successful parse, and never mutated.
type Document struct {
	// ID is the generated unique identifier.
	ID string `json:"id"`

	// Name is the caller-supplied unique name, usually the original filename.
	Name string `json:"name"`

	// IngestedAt is when the document was recorded in the ledger.
	IngestedAt time.Time `json:"ingested_at"`
}

// Page is one page of structured text produced by a parser.
// Pages are transient and consumed immediately by the chunker.
type Page struct {
	// Number is the 1-based page number within the document.
	Number int

	// StructuredText is markdown with heading markers at up to three levels.
	StructuredText string
}

// IngestResult reports the outcome of an ingestion call.
type IngestResult struct {
	// DocumentID is the ledger ID of the document.
	// Empty when the document had already been ingested.
	DocumentID string

	// PagesProcessed is the number of pages chunked and indexed.
	PagesProcessed int

	// AlreadyIngested is true when the call was an idempotent no-op.
	AlreadyIngested bool
}
