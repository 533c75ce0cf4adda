package driving

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// DocumentService manages ingested documents.
type DocumentService interface {
	// List returns up to limit documents, newest first. A limit <= 0 uses 50.
	List(ctx context.Context, limit int) ([]domain.Document, error)

	// Get retrieves a document with its embeddings ordered by chunk index.
	Get(ctx context.Context, documentID string) (*domain.DocumentDetail, error)

	// Delete removes a document, its archived blob and its embeddings.
	Delete(ctx context.Context, documentID string) error
}
