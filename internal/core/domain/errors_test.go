package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allErrors = map[string]error{
	"not found":                     ErrNotFound,
	"already exists":                ErrAlreadyExists,
	"invalid input":                 ErrInvalidInput,
	"unsupported type":              ErrUnsupportedType,
	"parse failure":                 ErrParseFailure,
	"index write failure":           ErrIndexWrite,
	"embedding service unavailable": ErrEmbeddingUnavailable,
	"rate limited":                  ErrRateLimited,
}

func TestErrors_Messages(t *testing.T) {
	for msg, err := range allErrors {
		assert.EqualError(t, err, msg)
	}
}

func TestErrors_Distinct(t *testing.T) {
	for a, errA := range allErrors {
		for b, errB := range allErrors {
			if a != b {
				assert.NotErrorIs(t, errA, errB)
			}
		}
	}
}

// Ingestion wraps a parser failure under ErrParseFailure while keeping the
// parser's own sentinel reachable.
func TestErrors_DoubleWrap(t *testing.T) {
	cause := fmt.Errorf("%w: not a zip archive", ErrInvalidInput)
	err := fmt.Errorf("%w: lease.docx: %w", ErrParseFailure, cause)

	assert.ErrorIs(t, err, ErrParseFailure)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrIndexWrite)
	assert.True(t, errors.Is(fmt.Errorf("page 3: %w", err), ErrParseFailure))
}
