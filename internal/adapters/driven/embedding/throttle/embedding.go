// Package throttle provides an embedding service decorator that limits the
// request rate to the wrapped provider.
package throttle

import (
	"context"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService waits on a limiter before every call that reaches the
// wrapped service.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *ratelimit.Limiter
}

// Wrap returns next throttled to requestsPerSecond. A non-positive rate
// returns next unchanged.
func Wrap(next driven.EmbeddingService, requestsPerSecond float64) driven.EmbeddingService {
	if requestsPerSecond <= 0 {
		return next
	}
	return &EmbeddingService{
		next: next,
		limiter: ratelimit.New(ratelimit.Config{
			RequestsPerSecond: requestsPerSecond,
			BurstSize:         1,
		}),
	}
}

// Embed waits for a token, then embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.Embed(ctx, text)
}

// EmbedBatch waits for a single token for the whole batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping is not throttled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.next.Close()
}
