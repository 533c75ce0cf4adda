// Package fallback wraps a real embedding provider so that failures
// degrade to deterministic mock vectors instead of errors.
package fallback

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Breaker defaults.
const (
	DefaultFailureThreshold = 3
	DefaultOpenTimeout      = 30 * time.Second
)

// EmbeddingService calls primary through a circuit breaker and answers
// from secondary whenever primary fails or the breaker is open.
// It never returns the primary's error.
type EmbeddingService struct {
	primary   driven.EmbeddingService
	secondary driven.EmbeddingService
	breaker   *gobreaker.CircuitBreaker
	metrics   driven.Metrics
}

// Option configures the fallback embedder.
type Option func(*options)

type options struct {
	failures uint32
	timeout  time.Duration
	metrics  driven.Metrics
}

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.failures = n
		}
	}
}

// WithOpenTimeout sets how long the breaker stays open before probing again.
func WithOpenTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMetrics counts fallbacks.
func WithMetrics(m driven.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New creates a fallback embedder.
func New(primary, secondary driven.EmbeddingService, opts ...Option) *EmbeddingService {
	o := options{failures: DefaultFailureThreshold, timeout: DefaultOpenTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "embedding:" + primary.ModelName(),
		MaxRequests: 1,
		Timeout:     o.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit %s: %s -> %s", name, from, to)
		},
	})

	return &EmbeddingService{
		primary:   primary,
		secondary: secondary,
		breaker:   breaker,
		metrics:   o.metrics,
	}
}

// Embed returns the primary's vector, or the secondary's on any failure.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.primary.Embed(ctx, text)
	})
	if err == nil {
		return res.([]float32), nil
	}
	s.degraded(err)
	return s.secondary.Embed(ctx, text)
}

// EmbedBatch returns the primary's vectors, or the secondary's for the
// whole batch on any failure.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.primary.EmbedBatch(ctx, texts)
	})
	if err == nil {
		return res.([][]float32), nil
	}
	s.degraded(err)
	return s.secondary.EmbedBatch(ctx, texts)
}

func (s *EmbeddingService) degraded(err error) {
	logger.Warn("Embedding provider %s unavailable, using %s: %v",
		s.primary.ModelName(), s.secondary.ModelName(), err)
	if s.metrics != nil {
		s.metrics.IncEmbeddingFallback()
	}
}

// State reports the breaker state.
func (s *EmbeddingService) State() gobreaker.State {
	return s.breaker.State()
}

// Dimensions returns the primary's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.primary.Dimensions()
}

// ModelName returns the primary's model name.
func (s *EmbeddingService) ModelName() string {
	return s.primary.ModelName()
}

// Ping checks the primary provider.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.primary.Ping(ctx)
}

// Close closes both providers.
func (s *EmbeddingService) Close() error {
	if err := s.primary.Close(); err != nil {
		return err
	}
	return s.secondary.Close()
}
