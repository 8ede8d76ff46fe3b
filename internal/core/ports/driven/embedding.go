// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"
	"io"
)

// Embedder turns passage and query text into vectors. Passage indexes
// only need this half of an embedding service.
//
// Output must be deterministic for identical input, otherwise stored
// distances drift between ingestion and retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingService is a configured embedding provider: OpenAI, Ollama or
// the offline hashing embedder.
type EmbeddingService interface {
	Embedder
	io.Closer

	// Dimensions is the vector size every call returns.
	Dimensions() int

	ModelName() string

	// Ping makes the cheapest request that proves the provider is usable.
	Ping(ctx context.Context) error
}
