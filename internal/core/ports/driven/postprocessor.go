package driven

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// PostProcessor is one pipeline stage. The first stage receives nil chunks
// and creates them from doc.Text; later stages refine what they are given.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline turns a document into its final, densely indexed chunks.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
