// Package ai selects and assembles the embedding and LLM adapters named in
// the application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	lrucache "github.com/custodia-labs/contentrag/internal/adapters/driven/cache/lru"
	rediscache "github.com/custodia-labs/contentrag/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/embedding/cached"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/embedding/fallback"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/embedding/mock"
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/logger"
)

const pingTimeout = 5 * time.Second

// Services is what Init assembled. Embedding is never nil; LLM is nil
// when none is configured or it could not be built.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
	// Warnings explain each degradation Init applied.
	Warnings []string
}

func (s *Services) Close() {
	closers := map[string]interface{ Close() error }{}
	if s.Embedding != nil {
		closers["embedding"] = s.Embedding
	}
	if s.LLM != nil {
		closers["LLM"] = s.LLM
	}
	for name, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("Closing %s service: %v", name, err)
		}
	}
}

// Init never fails: a broken cache is dropped, a broken embedder becomes
// the mock and a broken LLM becomes nil, each with a warning.
func Init(ctx context.Context, settings *domain.AppSettings, metrics driven.Metrics) *Services {
	out := &Services{}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		logger.Warn("%s", msg)
		out.Warnings = append(out.Warnings, msg)
	}

	cache, err := NewEmbeddingCache(ctx, settings.Cache)
	if err != nil {
		warn("embedding cache disabled: %v", err)
		cache = nil
	}

	out.Embedding, err = NewEmbeddingService(settings.Embedding, cache, metrics)
	if err != nil {
		warn("embedding provider unavailable, using mock: %v", err)
		out.Embedding = mock.NewEmbeddingService(settings.Embedding.Dimensions)
		if cache != nil {
			_ = cache.Close()
		}
	}

	if out.LLM, err = CreateLLMService(&settings.LLM); err != nil {
		warn("LLM unavailable, using fallback content: %v", err)
		out.LLM = nil
	}
	return out
}

// NewEmbeddingService returns the mock for unconfigured settings. Otherwise
// it stacks provider -> optional cache -> circuit breaker, the breaker
// answering with same-sized mock vectors while open. Mock vectors are never
// cached. cache is closed if it ends up unused.
func NewEmbeddingService(
	settings domain.EmbeddingSettings, cache driven.EmbeddingCache, metrics driven.Metrics,
) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		if cache != nil {
			_ = cache.Close()
		}
		return mock.NewEmbeddingService(settings.Dimensions), nil
	}

	provider, err := CreateEmbeddingService(&settings)
	if err != nil {
		return nil, err
	}
	var primary driven.EmbeddingService = provider
	if cache != nil {
		primary = cached.New(provider, cache)
	}
	return fallback.New(primary, mock.NewEmbeddingService(provider.Dimensions()), fallback.WithMetrics(metrics)), nil
}

// NewEmbeddingCache returns (nil, nil) when caching is off. A Redis cache
// must answer a ping within pingTimeout.
func NewEmbeddingCache(ctx context.Context, settings domain.CacheSettings) (driven.EmbeddingCache, error) {
	switch settings.Backend {
	case "", domain.CacheBackendNone:
		return nil, nil
	case domain.CacheBackendLRU:
		return lrucache.New(settings.Size, settings.TTL), nil
	case domain.CacheBackendRedis:
		if settings.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache requires cache.redis_addr")
		}
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		c, err := rediscache.New(ctx, rediscache.Config{
			Addr:      settings.RedisAddr,
			KeyPrefix: settings.KeyPrefix,
			TTL:       settings.TTL,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unsupported cache backend: %s", settings.Backend)
}
