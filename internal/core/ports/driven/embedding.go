package driven

import "context"

// EmbeddingService turns text into fixed-size vectors. Which provider sits
// behind it is decided once at startup; callers never branch on it.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns exactly one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
	// Ping is a cheap reachability check used when settings change.
	Ping(ctx context.Context) error
	Close() error
}

// EmbeddingCache maps a model-and-text-hash key to a vector.
type EmbeddingCache interface {
	// Get reports a miss as domain.ErrCacheMiss.
	Get(ctx context.Context, key string) ([]float32, error)
	Set(ctx context.Context, key string, vector []float32) error
	Close() error
}
