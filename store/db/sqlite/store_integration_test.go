package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberkit/vecstore/internal/profile"
	"github.com/emberkit/vecstore/store"
)

// stubEmbedder maps known texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, _ := s.Embed(ctx, text)
		out = append(out, vec)
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int { return 3 }

// TestStoreRoundTrip covers the full path: construct a store on sqlite,
// insert a document and get it back from a similarity search with its
// metadata and page content reconstructed.
func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	driver, err := NewDB(&profile.Profile{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "vecstore.db"),
	})
	require.NoError(t, err)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"hi":  {1, 0, 0},
		"bye": {0, 1, 0},
	}}

	s, err := store.New(ctx, driver, embedder, store.Spec{
		VectorDimensions: 3,
		TextKey:          "body",
		Strategy:         store.Cosine,
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.AddDocuments(ctx, []*store.Document{
		{PageContent: "hi", Metadata: map[string]string{"body": "hi"}},
		{PageContent: "bye", Metadata: map[string]string{"body": "bye"}},
	}))

	documents, err := s.SimilaritySearch(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, documents, 1)

	doc := documents[0]
	assert.Equal(t, "hi", doc.PageContent)
	assert.Equal(t, map[string]string{"body": "hi"}, doc.Metadata)
	require.NotNil(t, doc.Score)
	assert.InDelta(t, 0, *doc.Score, 1e-6)
}
