package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

func TestComputeInsights_RanksWithFirstSeenTieBreak(t *testing.T) {
	profiles := []domain.CompanyProfile{
		{KeyServices: []string{"X", "Y"}, Template: "modern", BusinessType: "agency"},
		{KeyServices: []string{"X"}, Template: "classic", BusinessType: "agency"},
		{KeyServices: []string{"Z"}, Template: "classic"},
	}

	got := ComputeInsights("Tech", profiles, baseTime)

	assert.Equal(t, 3, got.TotalCompanies)
	assert.Equal(t, []domain.RankedCount{{Value: "X", Count: 2}, {Value: "Y", Count: 1}, {Value: "Z", Count: 1}},
		got.TopServices)
	assert.Equal(t, []domain.RankedCount{{Value: "classic", Count: 2}, {Value: "modern", Count: 1}},
		got.PopularTemplates)
	assert.Equal(t, []domain.RankedCount{{Value: "agency", Count: 2}}, got.BusinessTypes)
	assert.Equal(t, baseTime, got.ComputedAt)
}

func TestComputeInsights_Limits(t *testing.T) {
	var profiles []domain.CompanyProfile
	for i := 0; i < 12; i++ {
		v := string(rune('a' + i))
		profiles = append(profiles, domain.CompanyProfile{KeyServices: []string{v}, Template: v, BusinessType: v})
	}

	got := ComputeInsights("Tech", profiles, baseTime)
	assert.Len(t, got.TopServices, domain.TopServicesLimit)
	assert.Len(t, got.PopularTemplates, domain.PopularTemplatesLimit)
	assert.Len(t, got.BusinessTypes, domain.BusinessTypesLimit)
}

func TestInsightsService_GetInsights(t *testing.T) {
	store := newFaultyStore()
	clock := &fixedClock{t: baseTime.Add(time.Hour)}
	metrics := &mockMetrics{}
	svc := NewInsightsService(store, WithInsightsClock(clock.now), WithInsightsMetrics(metrics))
	ctx := context.Background()

	addProfile(t, store.VectorStore, domain.CompanyProfile{BusinessName: "A", Industry: "Tech", KeyServices: []string{"X", "Y"}}, nil, 0)
	addProfile(t, store.VectorStore, domain.CompanyProfile{BusinessName: "B", Industry: "Tech", KeyServices: []string{"X"}}, nil, time.Minute)
	addProfile(t, store.VectorStore, domain.CompanyProfile{BusinessName: "C", Industry: "Food", KeyServices: []string{"Q"}}, nil, 2*time.Minute)

	first, err := svc.GetInsights(ctx, "Tech")
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalCompanies)
	assert.Equal(t, []domain.RankedCount{{Value: "X", Count: 2}, {Value: "Y", Count: 1}}, first.TopServices)
	assert.Equal(t, 1, store.Count(domain.CollectionInsights))
	assert.Equal(t, 1, metrics.cacheMisses)

	t.Run("fresh cache is served", func(t *testing.T) {
		addProfile(t, store.VectorStore, domain.CompanyProfile{BusinessName: "D", Industry: "Tech"}, nil, 3*time.Minute)
		clock.advance(23 * time.Hour)

		cached, err := svc.GetInsights(ctx, "Tech")
		require.NoError(t, err)
		assert.Equal(t, 2, cached.TotalCompanies)
		assert.True(t, cached.ComputedAt.Equal(first.ComputedAt), "cached %v, first %v", cached.ComputedAt, first.ComputedAt)
		assert.Equal(t, 1, metrics.cacheHits)
		assert.Equal(t, 1, store.Count(domain.CollectionInsights))
	})

	t.Run("stale cache is recomputed", func(t *testing.T) {
		clock.advance(2 * time.Hour)

		fresh, err := svc.GetInsights(ctx, "Tech")
		require.NoError(t, err)
		assert.Equal(t, 3, fresh.TotalCompanies)
		assert.Equal(t, 2, store.Count(domain.CollectionInsights))
	})
}

func TestInsightsService_GetInsights_StaleRecomputesUnchangedValue(t *testing.T) {
	store := newFaultyStore()
	clock := &fixedClock{t: baseTime.Add(time.Hour)}
	svc := NewInsightsService(store, WithInsightsClock(clock.now))
	ctx := context.Background()

	addProfile(t, store.VectorStore, domain.CompanyProfile{
		BusinessName: "A", Industry: "Tech", KeyServices: []string{"X"}, Template: "classic", BusinessType: "agency",
	}, nil, 0)

	first, err := svc.GetInsights(ctx, "Tech")
	require.NoError(t, err)

	clock.advance(domain.InsightsTTL - time.Second)
	within, err := svc.GetInsights(ctx, "Tech")
	require.NoError(t, err)
	assert.True(t, within.ComputedAt.Equal(first.ComputedAt))

	clock.advance(2 * time.Second)
	again, err := svc.GetInsights(ctx, "Tech")
	require.NoError(t, err)

	assert.True(t, again.ComputedAt.After(first.ComputedAt), "again %v, first %v", again.ComputedAt, first.ComputedAt)
	assert.Equal(t, first.TotalCompanies, again.TotalCompanies)
	assert.Equal(t, first.TopServices, again.TopServices)
	assert.Equal(t, first.PopularTemplates, again.PopularTemplates)
	assert.Equal(t, first.BusinessTypes, again.BusinessTypes)
	assert.Equal(t, 2, store.Count(domain.CollectionInsights))
}

func TestInsightsService_GetInsights_EmptyIndustryNotCached(t *testing.T) {
	store := newFaultyStore()
	svc := NewInsightsService(store)

	got, err := svc.GetInsights(context.Background(), "Unknown")
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyInsights("Unknown"), got)
	assert.Zero(t, store.Count(domain.CollectionInsights))

	_, err = svc.GetInsights(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
