package driving

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// SearchService provides similarity search to external actors.
type SearchService interface {
	// Search embeds the query and ranks recent records of opts.Scope by cosine similarity.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SimilarityResult, error)

	// FindSimilarProfiles returns stored profiles comparable to profile.
	FindSimilarProfiles(ctx context.Context, profile *domain.CompanyProfile, limit int) ([]domain.SimilarityResult, error)

	// RelevantDocuments returns document passages about the profile's industry best practices.
	RelevantDocuments(ctx context.Context, profile *domain.CompanyProfile, limit int) ([]domain.SimilarityResult, error)

	// SearchCompanies filters stored profiles and optionally ranks them against query.
	SearchCompanies(ctx context.Context, query string, filter domain.CompanyFilter) ([]domain.CompanyMatch, error)
}
