package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emberkit/vecstore/internal/profile"
	"github.com/emberkit/vecstore/store"
)

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", placeholder(1))
	assert.Equal(t, "$12", placeholder(12))
}

func TestBuildQueryParametersWithPostgresPlaceholders(t *testing.T) {
	records := []*store.VectorRecord{
		{ID: "a", Values: []float32{1, 0}, Metadata: map[string]string{"k": "v"}},
		{ID: "b", Values: []float32{0, 1}},
	}

	params := store.BuildQueryParameters(records, placeholder)
	assert.Equal(t, "($1, $2), ($3, $4)", params.VectorParams)
	assert.Equal(t, "($1, $2, $3, $4)", params.MetadataParams)
	assert.Equal(t, 1, params.MetadataCount)
}

func TestNewDBRequiresDSN(t *testing.T) {
	_, err := NewDB(&profile.Profile{Driver: "postgres"})
	assert.Error(t, err)
}
