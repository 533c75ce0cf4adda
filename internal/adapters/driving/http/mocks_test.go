package http

import (
	"context"
	stdhttp "net/http"
	"sync"
	"time"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

type mockSearch struct {
	results   []domain.SimilarityResult
	companies []domain.CompanyMatch
	err       error

	lastOpts   domain.SearchOptions
	lastFilter domain.CompanyFilter
	lastLimit  int
}

func (m *mockSearch) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.SimilarityResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockSearch) FindSimilarProfiles(_ context.Context, _ *domain.CompanyProfile, limit int) ([]domain.SimilarityResult, error) {
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearch) RelevantDocuments(_ context.Context, _ *domain.CompanyProfile, _ int) ([]domain.SimilarityResult, error) {
	return m.results, m.err
}

func (m *mockSearch) SearchCompanies(_ context.Context, _ string, filter domain.CompanyFilter) ([]domain.CompanyMatch, error) {
	m.lastFilter = filter
	return m.companies, m.err
}

type mockIngestion struct {
	result    *domain.IngestResult
	profileID string
	err       error

	lastFile     domain.RawFile
	lastMetadata map[string]any
	lastText     string
}

func (m *mockIngestion) IngestText(_ context.Context, _, text string, metadata map[string]any) (*domain.IngestResult, error) {
	m.lastText = text
	m.lastMetadata = metadata
	return m.result, m.err
}

func (m *mockIngestion) IngestFile(_ context.Context, file domain.RawFile, metadata map[string]any) (*domain.IngestResult, error) {
	m.lastFile = file
	m.lastMetadata = metadata
	return m.result, m.err
}

func (m *mockIngestion) StoreProfile(_ context.Context, _ *domain.CompanyProfile) (string, error) {
	return m.profileID, m.err
}

type mockGeneration struct {
	result       *domain.GenerationResult
	err          error
	lastTemplate string
}

func (m *mockGeneration) Generate(_ context.Context, _ *domain.CompanyProfile, template string) (*domain.GenerationResult, error) {
	m.lastTemplate = template
	return m.result, m.err
}

type mockInsights struct {
	insights *domain.IndustryInsights
	err      error
}

func (m *mockInsights) GetInsights(_ context.Context, _ string) (*domain.IndustryInsights, error) {
	return m.insights, m.err
}

type mockDocuments struct {
	docs   []domain.Document
	detail *domain.DocumentDetail
	err    error
}

func (m *mockDocuments) List(_ context.Context, _ int) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocuments) Get(_ context.Context, _ string) (*domain.DocumentDetail, error) {
	return m.detail, m.err
}

func (m *mockDocuments) Delete(_ context.Context, _ string) error {
	return m.err
}

type observation struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	mu  sync.Mutex
	obs []observation
}

func (f *fakeMetrics) ObserveHTTP(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, observation{method: method, route: route, status: status})
}

func (f *fakeMetrics) Handler() stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
}
