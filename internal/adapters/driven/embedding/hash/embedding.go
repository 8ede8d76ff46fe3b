// Package hash provides an offline embedding service built from a small
// legal topic lexicon and feature-hashed words.
package hash

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/vector"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the vector size when none is configured.
const DefaultDimensions = 384

// topicWeight scales the topic block against the word block. With both
// blocks unit length, a text without topic vocabulary can reach at most
// cosine 1/sqrt(1+topicWeight^2) against a topical query, which keeps its
// squared L2 distance above 1.1.
const topicWeight = 2

// topics maps each clause topic to the word prefixes that signal it.
// The order fixes the leading dimensions of every vector.
var topics = [][]string{
	{"terminat", "expir", "cancel", "discontinu", "insolven", "bankrupt", "rescind", "rescission"},
	{"liabil", "liable", "damage", "consequential", "punitive", "incidental", "exemplary", "negligen"},
	{"indemn", "harmless", "defend", "defense", "defence", "infring"},
	{"confidential", "disclos", "nondisclos", "secret", "privacy"},
	{"copyright", "intellectual", "owner", "licen", "patent", "trademark", "proprietar", "royalt"},
}

var stopwords = defaultStopwords()

func defaultStopwords() map[string]struct{} {
	words := strings.Fields(`a an and any are as at be been but by can each either
		for from has have if in into is it its may must no not of on or other such
		shall should than that the their then there these this those to under upon
		was were which while who will with within would`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// EmbeddingService maps text to a unit vector. The first dimensions count
// clause topic vocabulary and the rest hold hashed words, so the same text
// always yields the same vector and texts about the same clause topic land
// close together.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedder. Dimensions that leave no
// room for hashed words fall back to DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= len(topics) {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := make(map[string]int)
	hits := make([]int, len(topics))
	for _, tok := range tokenize(text) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		terms[tok]++
		if t := topicOf(tok); t >= 0 {
			hits[t]++
		}
	}

	v := make([]float32, s.dimensions)
	topic, words := v[:len(topics)], v[len(topics):]

	for t, n := range hits {
		topic[t] = termWeight(n)
	}
	vector.Normalize(topic)
	for i := range topic {
		topic[i] *= topicWeight
	}

	for term, n := range terms {
		words[bucket(term, len(words))] += termWeight(n)
	}
	vector.Normalize(words)

	vector.Normalize(v)
	return v, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		e, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = e
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return fmt.Sprintf("hash-%d", s.dimensions)
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// termWeight dampens repeated terms.
func termWeight(n int) float32 {
	if n == 0 {
		return 0
	}
	return float32(1 + math.Log(float64(n)))
}

func topicOf(tok string) int {
	for t, prefixes := range topics {
		for _, p := range prefixes {
			if strings.HasPrefix(tok, p) {
				return t
			}
		}
	}
	return -1
}

func bucket(term string, size int) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(term))
	return int(h.Sum64() % uint64(size))
}

// tokenize lowercases text and splits it into letter/digit runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
