package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDistanceStrategy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want DistanceStrategy
	}{
		{"default", "", Cosine},
		{"cosine", "cosine", Cosine},
		{"euclidean", "euclidean", Euclidean},
		{"l2 alias", "l2", Euclidean},
		{"inner product", "inner_product", InnerProduct},
		{"ip alias", "ip", InnerProduct},
		{"case insensitive", "COSINE", Cosine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDistanceStrategy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDistanceStrategy("manhattan")
	assert.Error(t, err)
}

func TestDistanceStrategyOperator(t *testing.T) {
	assert.Equal(t, "<=>", Cosine.Operator())
	assert.Equal(t, "<->", Euclidean.Operator())
	assert.Equal(t, "<#>", InnerProduct.Operator())
}

func TestEuclideanScore(t *testing.T) {
	assert.InDelta(t, 0, Euclidean.Score([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 5, Euclidean.Score([]float32{0, 0}, []float32{3, 4}), 1e-9)
}

func TestCosineScore(t *testing.T) {
	// Identical direction is distance zero, orthogonal is one.
	assert.InDelta(t, 0, Cosine.Score([]float32{1, 0, 0}, []float32{2, 0, 0}), 1e-6)
	assert.InDelta(t, 1, Cosine.Score([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, 2, Cosine.Score([]float32{1, 0}, []float32{-1, 0}), 1e-6)

	// A zero vector has no direction; treated as maximally distant.
	assert.InDelta(t, 1, Cosine.Score([]float32{0, 0}, []float32{1, 0}), 1e-9)
}

func TestInnerProductScoreNegated(t *testing.T) {
	query := []float32{1, 0}
	similar := []float32{2, 0}
	dissimilar := []float32{0.1, 0}

	// More similar must score smaller so that ascending order ranks it first.
	assert.Less(t, InnerProduct.Score(query, similar), InnerProduct.Score(query, dissimilar))
	assert.InDelta(t, -2, InnerProduct.Score(query, similar), 1e-9)
}

func TestDistanceStrategyValid(t *testing.T) {
	assert.True(t, Cosine.Valid())
	assert.True(t, Euclidean.Valid())
	assert.True(t, InnerProduct.Valid())
	assert.False(t, DistanceStrategy(42).Valid())
}
