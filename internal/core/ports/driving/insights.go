package driving

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// InsightsService provides cached industry statistics.
type InsightsService interface {
	// GetInsights returns statistics for an industry, recomputing when the cache is stale.
	GetInsights(ctx context.Context, industry string) (*domain.IndustryInsights, error)
}
