package store

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dollar(n int) string { return "$" + strconv.Itoa(n) }

func question(_ int) string { return "?" }

func TestBuildQueryParametersEmpty(t *testing.T) {
	params := BuildQueryParameters(nil, dollar)
	assert.Empty(t, params.VectorParams)
	assert.Empty(t, params.MetadataParams)
	assert.Zero(t, params.MetadataCount)
}

func TestBuildQueryParametersNumbered(t *testing.T) {
	records := []*VectorRecord{
		{ID: "a", Values: []float32{1}, Metadata: map[string]string{"k1": "v1", "k2": "v2"}},
		{ID: "b", Values: []float32{2}, Metadata: map[string]string{}},
		{ID: "c", Values: []float32{3}, Metadata: map[string]string{"k3": "v3"}},
	}

	params := BuildQueryParameters(records, dollar)
	assert.Equal(t, "($1, $2), ($3, $4), ($5, $6)", params.VectorParams)
	assert.Equal(t, "($1, $2, $3, $4), ($5, $6, $7, $8), ($9, $10, $11, $12)", params.MetadataParams)
	assert.Equal(t, 3, params.MetadataCount)
	assert.Len(t, params.Records, 3)
}

func TestBuildQueryParametersUnnumbered(t *testing.T) {
	records := []*VectorRecord{
		{ID: "a", Values: []float32{1}, Metadata: map[string]string{"k": "v"}},
		{ID: "b", Values: []float32{2}, Metadata: nil},
	}

	params := BuildQueryParameters(records, question)
	assert.Equal(t, "(?, ?), (?, ?)", params.VectorParams)
	assert.Equal(t, "(?, ?, ?, ?)", params.MetadataParams)
	assert.Equal(t, 1, params.MetadataCount)
}
