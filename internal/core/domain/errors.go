package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document or provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrParseFailure indicates the parser could not produce structured text.
	// Fatal for the ingestion call; nothing is written.
	ErrParseFailure = errors.New("parse failure")

	// ErrIndexWrite indicates a passage could not be written to the index.
	// Passages written before the failure remain indexed.
	ErrIndexWrite = errors.New("index write failure")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or could not produce a vector.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates an external API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
