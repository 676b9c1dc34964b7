package ai

import (
	"context"
	"time"

	"github.com/emberkit/vecstore/ai/cache"
)

// cachedEmbeddingService wraps an EmbeddingService with an LRU cache keyed by
// text, so repeated inserts of identical content hit the provider only once.
type cachedEmbeddingService struct {
	inner EmbeddingService
	cache *cache.LRUCache[string, []float32]
}

// NewCachedEmbeddingService wraps inner with an LRU embedding cache.
func NewCachedEmbeddingService(inner EmbeddingService, capacity int, ttl time.Duration) EmbeddingService {
	return &cachedEmbeddingService{
		inner: inner,
		cache: cache.NewLRUCache[string, []float32](capacity, ttl),
	}
}

func (s *cachedEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := s.cache.Get(text); ok {
		return vec, nil
	}
	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Set(text, vec)
	return vec, nil
}

func (s *cachedEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return s.inner.EmbedBatch(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	var misses []string
	var missIdx []int
	for i, text := range texts {
		if vec, ok := s.cache.Get(text); ok {
			vectors[i] = vec
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}
	if len(misses) == 0 {
		return vectors, nil
	}

	fresh, err := s.inner.EmbedBatch(ctx, misses)
	if err != nil {
		return nil, err
	}
	for i, vec := range fresh {
		s.cache.Set(misses[i], vec)
		vectors[missIdx[i]] = vec
	}
	return vectors, nil
}

func (s *cachedEmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}
