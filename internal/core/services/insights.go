package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Ensure InsightsService implements the interface.
var _ driving.InsightsService = (*InsightsService)(nil)

// InsightsService aggregates profile statistics per industry with a 24h cache.
type InsightsService struct {
	store   driven.VectorStore
	metrics driven.Metrics
	now     func() time.Time
}

// InsightsOption configures the insights service.
type InsightsOption func(*InsightsService)

// WithInsightsClock overrides the time source.
func WithInsightsClock(now func() time.Time) InsightsOption {
	return func(s *InsightsService) {
		s.now = now
	}
}

// WithInsightsMetrics records cache hits and misses.
func WithInsightsMetrics(m driven.Metrics) InsightsOption {
	return func(s *InsightsService) {
		s.metrics = m
	}
}

// NewInsightsService creates a new insights service.
func NewInsightsService(store driven.VectorStore, opts ...InsightsOption) *InsightsService {
	s := &InsightsService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetInsights returns the cached statistics for industry while they are
// fresh, and otherwise recomputes and caches them. An industry without
// profiles yields empty statistics that are not cached.
func (s *InsightsService) GetInsights(ctx context.Context, industry string) (*domain.IndustryInsights, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return nil, fmt.Errorf("industry is required: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	cached, err := s.store.Query(ctx, domain.CollectionInsights,
		domain.Newest(1).Where(domain.AttrIndustry, industry))
	if err != nil {
		return nil, fmt.Errorf("load cached insights: %w", err)
	}
	if len(cached) > 0 {
		insights, err := domain.InsightsFromRecord(cached[0])
		if err == nil && insights.IsFresh(now) {
			s.recordCache(true)
			logger.Debug("Insights cache hit for %s", industry)
			return insights, nil
		}
		if err != nil {
			logger.Warn("Ignoring unreadable insights record: %v", err)
		}
	}
	s.recordCache(false)

	records, err := s.store.Query(ctx, domain.CollectionProfiles,
		domain.Query{}.Where(domain.AttrIndustry, industry))
	if err != nil {
		return nil, fmt.Errorf("load %s profiles: %w", industry, err)
	}
	if len(records) == 0 {
		return domain.EmptyInsights(industry), nil
	}

	profiles := make([]domain.CompanyProfile, 0, len(records))
	for _, rec := range records {
		p, err := domain.ProfileFromRecord(rec)
		if err != nil {
			logger.Warn("Skipping profile: %v", err)
			continue
		}
		profiles = append(profiles, *p)
	}

	insights := ComputeInsights(industry, profiles, now.UTC())
	rec, err := insights.ToRecord()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Add(ctx, domain.CollectionInsights, rec); err != nil {
		return nil, fmt.Errorf("cache insights: %w", err)
	}

	logger.Info("Computed insights for %s from %d profiles", industry, len(profiles))
	return insights, nil
}

func (s *InsightsService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.IncInsightsCache(hit)
	}
}

// ComputeInsights ranks services, templates and business types across profiles.
// Profiles must be in query order; equal counts keep first-seen order.
func ComputeInsights(industry string, profiles []domain.CompanyProfile, computedAt time.Time) *domain.IndustryInsights {
	services := newCounter()
	templates := newCounter()
	types := newCounter()

	for _, p := range profiles {
		for _, svc := range p.KeyServices {
			services.add(svc)
		}
		templates.add(p.Template)
		types.add(p.BusinessType)
	}

	return &domain.IndustryInsights{
		Industry:         industry,
		TotalCompanies:   len(profiles),
		TopServices:      services.top(domain.TopServicesLimit),
		PopularTemplates: templates.top(domain.PopularTemplatesLimit),
		BusinessTypes:    types.top(domain.BusinessTypesLimit),
		ComputedAt:       computedAt,
	}
}

// counter tallies values in first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(v string) {
	if v == "" {
		return
	}
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter) top(n int) []domain.RankedCount {
	ranked := make([]domain.RankedCount, 0, len(c.order))
	for _, v := range c.order {
		ranked = append(ranked, domain.RankedCount{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
