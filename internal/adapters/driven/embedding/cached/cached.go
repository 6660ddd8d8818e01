// Package cached wraps an embedding service with a persistent cache
// so re-indexing unchanged content never re-calls the provider.
package cached

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService is a caching decorator around another embedding
// service. Lookups are keyed by a hash of the text content, so the
// same text always maps to the same cache entry regardless of which
// video it came from.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache driven.EmbeddingCache
}

// New wraps inner with cache.
func New(inner driven.EmbeddingService, cache driven.EmbeddingCache) *EmbeddingService {
	return &EmbeddingService{inner: inner, cache: cache}
}

// Key returns the cache key for a piece of text.
func Key(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Embed returns the cached embedding for text, computing and storing
// it on a miss. A cached vector whose dimension no longer matches the
// inner service is treated as a miss and recomputed.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := Key(text)

	if vector, ok := s.cache.Get(key); ok && len(vector) == s.inner.Dimensions() {
		return vector, nil
	}

	vector, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(key, vector); err != nil {
		// A failed cache write costs a recompute later, not the
		// embedding itself.
		logger.Warn("embedding cache write failed: %v", err)
	}
	return vector, nil
}

// EmbedBatch resolves as many texts as possible from the cache and
// sends only the misses to the inner service in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		key := Key(text)
		if vector, ok := s.cache.Get(key); ok && len(vector) == s.inner.Dimensions() {
			vectors[i] = vector
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	computed, err := s.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missing) {
		return nil, fmt.Errorf("embedding batch returned %d vectors for %d texts", len(computed), len(missing))
	}

	for j, vector := range computed {
		i := missingIdx[j]
		vectors[i] = vector
		if err := s.cache.Put(Key(texts[i]), vector); err != nil {
			logger.Warn("embedding cache write failed: %v", err)
		}
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the underlying embedding model.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the underlying service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the underlying service. The cache is owned by the
// caller and closed separately.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
