package driven

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// VectorStore persists records with their embeddings across named collections.
// Search is brute force over Query results; stores do no scoring.
type VectorStore interface {
	// Add inserts a record and returns its id. An empty record ID is generated.
	// A zero CreatedAt is set to the current time.
	Add(ctx context.Context, collection domain.Collection, record domain.Record) (string, error)

	// Query returns the records matching q.
	Query(ctx context.Context, collection domain.Collection, q domain.Query) ([]domain.Record, error)

	// Get retrieves a record by id. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, collection domain.Collection, id string) (*domain.Record, error)

	// Delete removes a record by id. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, collection domain.Collection, id string) error

	// Close releases resources.
	Close() error
}

// BlobStore archives raw uploaded bytes.
type BlobStore interface {
	// Put stores data under key and returns a location for retrieval.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Get returns the bytes stored under key. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the bytes stored under key. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, key string) error
}
