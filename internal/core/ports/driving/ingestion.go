package driving

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// IngestionService turns text, files and profiles into stored, embedded records.
type IngestionService interface {
	// IngestText chunks, embeds and stores text as a document.
	IngestText(ctx context.Context, name, text string, metadata map[string]any) (*domain.IngestResult, error)

	// IngestFile archives, extracts and ingests an uploaded file.
	IngestFile(ctx context.Context, file domain.RawFile, metadata map[string]any) (*domain.IngestResult, error)

	// StoreProfile embeds and stores a company profile, returning its id.
	StoreProfile(ctx context.Context, profile *domain.CompanyProfile) (string, error)
}
