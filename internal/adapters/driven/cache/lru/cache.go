// Package lru provides an in-process embedding cache.
package lru

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// Defaults.
const (
	DefaultSize = 1000
	DefaultTTL  = 24 * time.Hour
)

// Cache is a size-bounded LRU with per-entry expiry.
type Cache struct {
	lru *expirable.LRU[string, []float32]
}

// New creates a cache. Non-positive values use the defaults.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{lru: expirable.NewLRU[string, []float32](size, nil, ttl)}
}

// Get returns a copy of the cached vector.
func (c *Cache) Get(_ context.Context, key string) ([]float32, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return append([]float32(nil), v...), nil
}

// Set stores a copy of vector.
func (c *Cache) Set(_ context.Context, key string, vector []float32) error {
	c.lru.Add(key, append([]float32(nil), vector...))
	return nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Close empties the cache.
func (c *Cache) Close() error {
	c.lru.Purge()
	return nil
}
