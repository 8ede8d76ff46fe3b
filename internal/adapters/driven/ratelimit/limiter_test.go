package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Unlimited(t *testing.T) {
	l := New(Config{})

	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
}

func TestLimiter_Wait_CancelledDuringBackoff(t *testing.T) {
	l := New(Config{})
	l.Backoff(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiter_Backoff_KeepsLatest(t *testing.T) {
	l := New(Config{})
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	l.Backoff(time.Minute)
	l.Backoff(time.Second)

	assert.Equal(t, base.Add(time.Minute), l.retryAt)

	l.Backoff(0)
	assert.Equal(t, base.Add(time.Minute), l.retryAt, "default backoff is shorter than the recorded one")
}

func TestLimiter_Observe(t *testing.T) {
	l := New(Config{})
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	assert.False(t, l.Observe(nil))
	assert.False(t, l.Observe(&http.Response{StatusCode: http.StatusOK}))
	assert.True(t, l.retryAt.IsZero())

	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set("Retry-After", "7")
	assert.True(t, l.Observe(resp))
	assert.Equal(t, base.Add(7*time.Second), l.retryAt)
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, RetryAfter(h))

	h.Set("Retry-After", "soon")
	assert.Zero(t, RetryAfter(h))

	h.Set("Retry-After", "12")
	assert.Equal(t, 12*time.Second, RetryAfter(h))
}

func TestLimiter_Throttles(t *testing.T) {
	l := New(Config{RequestsPerSecond: 50, BurstSize: 1})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(ctx))
	}

	// Two waits at 50/s take at least ~40ms.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
