package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "dev", p.Mode)
	assert.Equal(t, "sqlite", p.Driver)
	assert.Equal(t, "BAAI/bge-m3", p.EmbeddingModel)
	assert.Equal(t, 1024, p.EmbeddingDimensions)
	assert.Equal(t, "cosine", p.DistanceStrategy)
	assert.False(t, p.OverwriteExistingTables)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("VECSTORE_DRIVER", "postgres")
	t.Setenv("VECSTORE_DSN", "postgres://localhost/vecstore")
	t.Setenv("VECSTORE_EMBEDDING_DIMENSIONS", "768")
	t.Setenv("VECSTORE_TEXT_KEY", "body")
	t.Setenv("VECSTORE_DISTANCE_STRATEGY", "euclidean")
	t.Setenv("VECSTORE_OVERWRITE_TABLES", "true")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "postgres", p.Driver)
	assert.Equal(t, "postgres://localhost/vecstore", p.DSN)
	assert.Equal(t, 768, p.EmbeddingDimensions)
	assert.Equal(t, "body", p.TextKey)
	assert.Equal(t, "euclidean", p.DistanceStrategy)
	assert.True(t, p.OverwriteExistingTables)
}

func TestFromEnvFlagValuesTakePrecedence(t *testing.T) {
	t.Setenv("VECSTORE_DRIVER", "postgres")

	p := &Profile{Driver: "sqlite", DSN: "/tmp/vecstore.db"}
	p.FromEnv()

	assert.Equal(t, "sqlite", p.Driver)
	assert.Equal(t, "/tmp/vecstore.db", p.DSN)
}

func TestValidate(t *testing.T) {
	valid := func() *Profile {
		return &Profile{
			Driver:              "sqlite",
			DSN:                 "/tmp/vecstore.db",
			EmbeddingDimensions: 1024,
			DistanceStrategy:    "cosine",
		}
	}

	require.NoError(t, valid().Validate())

	p := valid()
	p.Driver = "mysql"
	assert.Error(t, p.Validate())

	p = valid()
	p.DSN = ""
	assert.Error(t, p.Validate())

	p = valid()
	p.EmbeddingDimensions = 0
	assert.Error(t, p.Validate())

	p = valid()
	p.DistanceStrategy = "manhattan"
	assert.Error(t, p.Validate())
}
