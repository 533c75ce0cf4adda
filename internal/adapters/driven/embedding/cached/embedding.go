// Package cached memoises embeddings in a driven.EmbeddingCache.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService serves repeated texts from cache.
// Cache failures are logged and otherwise ignored.
type EmbeddingService struct {
	next  driven.EmbeddingService
	cache driven.EmbeddingCache
}

// New wraps next with cache.
func New(next driven.EmbeddingService, cache driven.EmbeddingCache) *EmbeddingService {
	return &EmbeddingService{next: next, cache: cache}
}

// Key returns the cache key for text under model.
func Key(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return model + ":" + hex.EncodeToString(sum[:])
}

// Embed returns the cached vector or computes and stores it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := Key(s.next.ModelName(), text)
	if v, ok := s.lookup(ctx, key); ok {
		return v, nil
	}

	v, err := s.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, v)
	return v, nil
}

// EmbedBatch computes only the cache misses, in one call to the wrapped service.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missTexts []string
	var missIdx []int

	model := s.next.ModelName()
	for i, text := range texts {
		keys[i] = Key(model, text)
		if v, ok := s.lookup(ctx, keys[i]); ok {
			out[i] = v
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := s.next.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("cached: %s returned %d vectors for %d texts", model, len(vectors), len(missTexts))
	}
	for j, i := range missIdx {
		out[i] = vectors[j]
		s.store(ctx, keys[i], vectors[j])
	}
	return out, nil
}

func (s *EmbeddingService) lookup(ctx context.Context, key string) ([]float32, bool) {
	v, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("Embedding cache read failed: %v", err)
		}
		return nil, false
	}
	return v, true
}

func (s *EmbeddingService) store(ctx context.Context, key string, v []float32) {
	if err := s.cache.Set(ctx, key, v); err != nil {
		logger.Warn("Embedding cache write failed: %v", err)
	}
}

// Dimensions returns the wrapped vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName returns the wrapped model name.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping checks the wrapped provider.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the cache and the wrapped provider.
func (s *EmbeddingService) Close() error {
	return errors.Join(s.cache.Close(), s.next.Close())
}
