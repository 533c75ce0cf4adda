package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Limits applied by the profile-oriented searches.
const (
	defaultSimilarProfilesLimit   = 5
	defaultRelevantDocumentsLimit = 3
	defaultCompanySearchLimit     = 10
)

// SearchService ranks stored records against a query by cosine similarity.
// Every call re-reads the newest candidates from the store; there is no index.
type SearchService struct {
	store          driven.VectorStore
	embedder       driven.EmbeddingService
	metrics        driven.Metrics
	candidateLimit int
	limit          int
	threshold      float64
}

// SearchOption configures the search service.
type SearchOption func(*SearchService)

// WithCandidateLimit sets how many of the newest records each search scores.
func WithCandidateLimit(n int) SearchOption {
	return func(s *SearchService) {
		if n > 0 {
			s.candidateLimit = n
		}
	}
}

// WithSearchDefaults sets the limit and threshold used when a request omits them.
func WithSearchDefaults(limit int, threshold float64) SearchOption {
	return func(s *SearchService) {
		if limit > 0 {
			s.limit = limit
		}
		s.threshold = threshold
	}
}

// WithSearchMetrics records search counts and latency.
func WithSearchMetrics(m driven.Metrics) SearchOption {
	return func(s *SearchService) {
		s.metrics = m
	}
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.VectorStore, embedder driven.EmbeddingService, opts ...SearchOption) *SearchService {
	s := &SearchService{
		store:          store,
		embedder:       embedder,
		candidateLimit: domain.DefaultCandidateLimit,
		limit:          domain.DefaultSearchLimit,
		threshold:      domain.DefaultSearchThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search embeds the query and returns the best matching records of opts.Scope.
// Results are ordered by descending score; equal scores keep newest-first order.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SimilarityResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}

	if opts.Limit <= 0 {
		opts.Limit = s.limit
	}
	if opts.Threshold == nil {
		opts.Threshold = domain.Threshold(s.threshold)
	}
	opts = opts.WithDefaults()
	if !opts.Scope.IsValid() {
		return nil, fmt.Errorf("scope %q: %w", opts.Scope, domain.ErrInvalidInput)
	}

	logger.Debug("Search %s: %q (limit=%d, threshold=%.2f)", opts.Scope, query, opts.Limit, *opts.Threshold)
	start := time.Now()

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.rank(ctx, vector, opts)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveSearch(opts.Scope.String(), time.Since(start), len(results))
	}
	logger.Debug("Search %s returned %d results", opts.Scope, len(results))
	return results, nil
}

// rank scores the newest candidates of a collection against vector.
func (s *SearchService) rank(
	ctx context.Context, vector []float32, opts domain.SearchOptions,
) ([]domain.SimilarityResult, error) {
	records, err := s.store.Query(ctx, opts.Scope, domain.Newest(s.candidateLimit))
	if err != nil {
		return nil, fmt.Errorf("load %s candidates: %w", opts.Scope, err)
	}

	results := make([]domain.SimilarityResult, 0, len(records))
	for i := range records {
		rec := &records[i]
		if len(rec.Embedding) == 0 {
			continue
		}
		score, err := CosineSimilarity(vector, rec.Embedding)
		if errors.Is(err, domain.ErrDimensionMismatch) {
			logger.Warn("Skipping %s/%s: %v", opts.Scope, rec.ID, err)
			continue
		}
		if score < *opts.Threshold {
			continue
		}
		results = append(results, toSimilarityResult(opts.Scope, rec, score))
	}

	// Candidates arrive newest first; a stable sort keeps that order for ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func toSimilarityResult(scope domain.Collection, rec *domain.Record, score float64) domain.SimilarityResult {
	return domain.SimilarityResult{
		ID:         rec.ID,
		Collection: scope,
		DocumentID: rec.ParentID,
		ChunkIndex: rec.Position,
		Text:       rec.Text,
		Score:      score,
		Attributes: rec.Attributes,
		CreatedAt:  rec.CreatedAt,
	}
}

// FindSimilarProfiles returns stored profiles comparable to profile,
// matched on industry, business type and audience.
func (s *SearchService) FindSimilarProfiles(
	ctx context.Context, profile *domain.CompanyProfile, limit int,
) ([]domain.SimilarityResult, error) {
	if limit <= 0 {
		limit = defaultSimilarProfilesLimit
	}
	query := profile.SimilarityQuery()
	if strings.TrimSpace(query) == "" {
		return []domain.SimilarityResult{}, nil
	}
	return s.Search(ctx, query, domain.SearchOptions{
		Limit:     limit,
		Threshold: domain.Threshold(domain.SimilarProfileThreshold),
		Scope:     domain.CollectionProfiles,
	})
}

// RelevantDocuments returns document passages about best practices
// for the profile's industry and business type.
func (s *SearchService) RelevantDocuments(
	ctx context.Context, profile *domain.CompanyProfile, limit int,
) ([]domain.SimilarityResult, error) {
	if limit <= 0 {
		limit = defaultRelevantDocumentsLimit
	}
	return s.Search(ctx, profile.BestPracticesQuery(), domain.SearchOptions{
		Limit: limit,
		Scope: domain.CollectionEmbeddings,
	})
}

// SearchCompanies returns the newest profiles matching filter. With a
// non-empty query the profiles are also scored, and only those scoring
// above domain.CompanyMatchThreshold are kept, best first.
func (s *SearchService) SearchCompanies(
	ctx context.Context, query string, filter domain.CompanyFilter,
) ([]domain.CompanyMatch, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultCompanySearchLimit
	}

	q := domain.Newest(filter.Limit)
	if filter.Industry != "" {
		q = q.Where(domain.AttrIndustry, filter.Industry)
	}
	if filter.BusinessType != "" {
		q = q.Where(domain.AttrBusinessType, filter.BusinessType)
	}

	records, err := s.store.Query(ctx, domain.CollectionProfiles, q)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}

	var vector []float32
	query = strings.TrimSpace(query)
	if query != "" {
		if vector, err = s.embedder.Embed(ctx, query); err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
	}

	matches := make([]domain.CompanyMatch, 0, len(records))
	for _, rec := range records {
		profile, err := domain.ProfileFromRecord(rec)
		if err != nil {
			logger.Warn("Skipping profile: %v", err)
			continue
		}

		match := domain.CompanyMatch{CompanyProfile: *profile}
		if vector != nil {
			score, err := CosineSimilarity(vector, profile.Embedding)
			if err != nil || score <= domain.CompanyMatchThreshold {
				continue
			}
			match.Similarity = score
		}
		match.Embedding = nil
		matches = append(matches, match)
	}

	if vector != nil {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Similarity > matches[j].Similarity
		})
	}
	return matches, nil
}
