package store

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// DistanceStrategy is the metric used to rank vectors by closeness to a query
// vector. Each variant carries both the pgvector operator embedded into the
// ORDER BY clause and the client-side scoring function, so the two cannot
// drift apart. Smaller score means closer for every variant; the inner
// product is negated to keep that convention.
type DistanceStrategy int

const (
	Cosine DistanceStrategy = iota
	Euclidean
	InnerProduct
)

// ParseDistanceStrategy resolves a configuration string to a strategy.
// The empty string defaults to cosine distance.
func ParseDistanceStrategy(name string) (DistanceStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cosine":
		return Cosine, nil
	case "euclidean", "l2":
		return Euclidean, nil
	case "inner_product", "ip":
		return InnerProduct, nil
	}
	return Cosine, errors.Errorf("unknown distance strategy: %q", name)
}

func (s DistanceStrategy) String() string {
	switch s {
	case Euclidean:
		return "euclidean"
	case InnerProduct:
		return "inner_product"
	default:
		return "cosine"
	}
}

// Valid reports whether s is one of the known variants.
func (s DistanceStrategy) Valid() bool {
	switch s {
	case Cosine, Euclidean, InnerProduct:
		return true
	}
	return false
}

// Operator returns the pgvector distance operator for the ORDER BY clause.
// Rows are fetched in ascending order of the resulting expression.
func (s DistanceStrategy) Operator() string {
	switch s {
	case Euclidean:
		return "<->"
	case InnerProduct:
		return "<#>"
	default:
		return "<=>"
	}
}

// Score computes the distance between two equal-length vectors on the client.
// The backing store only returns the ordering, not the numeric distance, so
// result scores are recomputed here. Consistent with Operator: ascending
// Score matches the server-side row order.
func (s DistanceStrategy) Score(a, b []float32) float64 {
	switch s {
	case Euclidean:
		return euclideanDistance(a, b)
	case InnerProduct:
		// Negated so that the most similar vector still sorts first.
		return -dotProduct(a, b)
	default:
		return cosineDistance(a, b)
	}
}

func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func euclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
