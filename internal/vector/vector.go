// Package vector holds the distance functions shared by the passage indexes.
package vector

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

// DistanceFunc scores the dissimilarity of two vectors. Lower is closer.
type DistanceFunc func(a, b []float32) float64

// SquaredL2 returns the squared euclidean distance between a and b.
// Vectors of different length are compared over the shorter prefix.
func SquaredL2(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// Cosine returns one minus the cosine similarity of a and b, in [0, 2].
// A zero vector is at distance 1 from everything.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// ForMetric returns the distance function for a configured metric.
func ForMetric(metric domain.DistanceMetric) (DistanceFunc, error) {
	switch metric {
	case domain.DistanceL2, "":
		return SquaredL2, nil
	case domain.DistanceCosine:
		return Cosine, nil
	default:
		return nil, fmt.Errorf("%w: distance metric %q", domain.ErrInvalidInput, metric)
	}
}

// Normalize scales v to unit length in place. A zero vector is unchanged.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}

// Scored pairs an item with its distance from a query.
type Scored[T any] struct {
	Item     T
	Distance float64
}

// Nearest returns up to k entries ordered by ascending distance.
func Nearest[T any](scored []Scored[T], k int) []Scored[T] {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})
	if k >= 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
