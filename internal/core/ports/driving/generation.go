package driving

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// GenerationService produces website content informed by stored context.
type GenerationService interface {
	// Generate retrieves context for the profile, synthesizes content
	// and stores the enriched profile.
	Generate(ctx context.Context, profile *domain.CompanyProfile, template string) (*domain.GenerationResult, error)
}
