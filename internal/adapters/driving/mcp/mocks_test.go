package mcp

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.SimilarityResult
	companies []domain.CompanyMatch
	err       error

	lastQuery   string
	lastOpts    domain.SearchOptions
	lastProfile *domain.CompanyProfile
	lastLimit   int
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SimilarityResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockSearchService) FindSimilarProfiles(
	_ context.Context, profile *domain.CompanyProfile, limit int,
) ([]domain.SimilarityResult, error) {
	m.lastProfile = profile
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) RelevantDocuments(
	_ context.Context, _ *domain.CompanyProfile, _ int,
) ([]domain.SimilarityResult, error) {
	return m.results, m.err
}

func (m *mockSearchService) SearchCompanies(
	_ context.Context, _ string, _ domain.CompanyFilter,
) ([]domain.CompanyMatch, error) {
	return m.companies, m.err
}

// mockGenerationService is a mock implementation of driving.GenerationService.
type mockGenerationService struct {
	result *domain.GenerationResult
	err    error

	lastProfile  *domain.CompanyProfile
	lastTemplate string
}

func (m *mockGenerationService) Generate(
	_ context.Context, profile *domain.CompanyProfile, template string,
) (*domain.GenerationResult, error) {
	m.lastProfile = profile
	m.lastTemplate = template
	return m.result, m.err
}

// mockInsightsService is a mock implementation of driving.InsightsService.
type mockInsightsService struct {
	insights *domain.IndustryInsights
	err      error
}

func (m *mockInsightsService) GetInsights(_ context.Context, _ string) (*domain.IndustryInsights, error) {
	return m.insights, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	detail    *domain.DocumentDetail
	err       error
}

func (m *mockDocumentService) List(_ context.Context, _ int) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.DocumentDetail, error) {
	return m.detail, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}
