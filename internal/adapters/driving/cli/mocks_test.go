package cli

import (
	"context"
	"time"

	apihttp "github.com/custodia-labs/contentrag/internal/adapters/driving/http"
	"github.com/custodia-labs/contentrag/internal/adapters/driving/watcher"
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type mockIngestionService struct {
	lastName     string
	lastText     string
	lastFile     domain.RawFile
	lastMetadata map[string]any
	lastProfile  *domain.CompanyProfile
	err          error
}

var _ driving.IngestionService = (*mockIngestionService)(nil)

func (m *mockIngestionService) IngestText(
	_ context.Context, name, text string, metadata map[string]any,
) (*domain.IngestResult, error) {
	m.lastName, m.lastText, m.lastMetadata = name, text, metadata
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestResult{DocumentID: "doc-1", ChunkCount: 2, TextLength: len(text)}, nil
}

func (m *mockIngestionService) IngestFile(
	_ context.Context, file domain.RawFile, metadata map[string]any,
) (*domain.IngestResult, error) {
	m.lastFile, m.lastMetadata = file, metadata
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestResult{
		DocumentID:   "doc-2",
		BlobLocation: "file:///blobs/doc-2",
		ChunkCount:   1,
		TextLength:   len(file.Content),
	}, nil
}

func (m *mockIngestionService) StoreProfile(_ context.Context, profile *domain.CompanyProfile) (string, error) {
	m.lastProfile = profile
	if m.err != nil {
		return "", m.err
	}
	return "profile-1", nil
}

type mockSearchService struct {
	lastQuery  string
	lastOpts   domain.SearchOptions
	lastFilter domain.CompanyFilter
	lastLimit  int
	err        error
}

var _ driving.SearchService = (*mockSearchService)(nil)

func (m *mockSearchService) Search(
	_ context.Context, query string, opts domain.SearchOptions,
) ([]domain.SimilarityResult, error) {
	m.lastQuery, m.lastOpts = query, opts
	if m.err != nil {
		return nil, m.err
	}
	return []domain.SimilarityResult{
		{
			ID:         "doc-1_chunk_0",
			Collection: domain.CollectionEmbeddings,
			DocumentID: "doc-1",
			Text:       "Bakeries in the city centre focus on sourdough.",
			Score:      0.91,
			CreatedAt:  testTime,
		},
	}, nil
}

func (m *mockSearchService) FindSimilarProfiles(
	_ context.Context, _ *domain.CompanyProfile, limit int,
) ([]domain.SimilarityResult, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return []domain.SimilarityResult{
		{
			ID:         "profile-9",
			Collection: domain.CollectionProfiles,
			Score:      0.82,
			Attributes: map[string]string{
				domain.AttrBusinessName: "Crumb & Co",
				domain.AttrIndustry:     "bakery",
				domain.AttrBusinessType: "retail",
			},
		},
	}, nil
}

func (m *mockSearchService) RelevantDocuments(
	_ context.Context, _ *domain.CompanyProfile, _ int,
) ([]domain.SimilarityResult, error) {
	return nil, m.err
}

func (m *mockSearchService) SearchCompanies(
	_ context.Context, query string, filter domain.CompanyFilter,
) ([]domain.CompanyMatch, error) {
	m.lastQuery, m.lastFilter = query, filter
	if m.err != nil {
		return nil, m.err
	}
	return []domain.CompanyMatch{
		{
			CompanyProfile: domain.CompanyProfile{
				ID:           "profile-9",
				BusinessName: "Crumb & Co",
				Industry:     "bakery",
				BusinessType: "retail",
				CreatedAt:    testTime,
			},
			Similarity: 0.64,
		},
	}, nil
}

type mockGenerationService struct {
	lastProfile  *domain.CompanyProfile
	lastTemplate string
	err          error
}

var _ driving.GenerationService = (*mockGenerationService)(nil)

func (m *mockGenerationService) Generate(
	_ context.Context, profile *domain.CompanyProfile, template string,
) (*domain.GenerationResult, error) {
	m.lastProfile, m.lastTemplate = profile, template
	if m.err != nil {
		return nil, m.err
	}
	content := domain.GeneratedContent{
		Hero:     domain.HeroSection{Headline: "Fresh bread daily", Subheadline: "Baked at dawn", CTAText: "Order now"},
		About:    domain.AboutSection{Content: "A family bakery.", Highlights: []string{"Local flour"}},
		Services: domain.ServicesSection{Title: "What we bake", Items: []domain.ServiceItem{{Name: "Sourdough", Description: "Slow fermented"}}},
		Contact:  domain.ContactSection{Title: "Visit us", Description: "Open every day", Email: "hi@bakery.test", Phone: "555-0100"},
		Pages:    []string{"Home", "About"},
	}
	return &domain.GenerationResult{
		Content:           content,
		ProfileID:         "profile-2",
		Template:          template,
		Fallback:          true,
		SimilarProfiles:   1,
		RelevantDocuments: 2,
	}, nil
}

type mockInsightsService struct {
	empty bool
	err   error
}

var _ driving.InsightsService = (*mockInsightsService)(nil)

func (m *mockInsightsService) GetInsights(_ context.Context, industry string) (*domain.IndustryInsights, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return domain.EmptyInsights(industry), nil
	}
	return &domain.IndustryInsights{
		Industry:         industry,
		TotalCompanies:   3,
		TopServices:      []domain.RankedCount{{Value: "Catering", Count: 2}},
		PopularTemplates: []domain.RankedCount{{Value: "modern", Count: 3}},
		BusinessTypes:    []domain.RankedCount{{Value: "retail", Count: 1}},
		ComputedAt:       testTime,
	}, nil
}

type mockDocumentService struct {
	deleted []string
	err     error
}

var _ driving.DocumentService = (*mockDocumentService)(nil)

func (m *mockDocumentService) List(_ context.Context, limit int) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	docs := []domain.Document{
		{ID: "doc-1", SourceName: "menu.txt", MIMEType: "text/plain", ChunkCount: 2, CreatedAt: testTime},
		{ID: "doc-2", SourceName: "about.md", MIMEType: "text/markdown", ChunkCount: 1, CreatedAt: testTime},
	}
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *mockDocumentService) Get(_ context.Context, documentID string) (*domain.DocumentDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	if documentID != "doc-1" {
		return nil, domain.ErrNotFound
	}
	return &domain.DocumentDetail{
		Document: domain.Document{
			ID:         "doc-1",
			SourceName: "menu.txt",
			MIMEType:   "text/plain",
			Size:       42,
			Text:       "Sourdough and rye.",
			ChunkCount: 1,
			Metadata:   map[string]any{"source": "upload"},
			CreatedAt:  testTime,
		},
		Embeddings: []domain.EmbeddingRecord{
			{ID: "e-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "Sourdough and rye."},
		},
	}, nil
}

func (m *mockDocumentService) Delete(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	if documentID != "doc-1" {
		return domain.ErrNotFound
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

type mockSettingsService struct {
	settings domain.AppSettings
	set      map[string]string
	setErr   error
	validErr error
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }

type testServices struct {
	ingestion  *mockIngestionService
	search     *mockSearchService
	generation *mockGenerationService
	insights   *mockInsightsService
	document   *mockDocumentService
	settings   *mockSettingsService
}

// setupTestServices installs fresh mocks and returns a cleanup that restores
// the previous services and resets flag values shared between tests.
func setupTestServices() func() {
	_, cleanup := setupTestServicesWithMocks()
	return cleanup
}

func setupTestServicesWithMocks() (*testServices, func()) {
	prev := Services{
		Ingestion:  ingestionService,
		Search:     searchService,
		Generation: generationService,
		Insights:   insightsService,
		Document:   documentService,
		Settings:   settingsService,
		Metrics:    apiMetrics,
		Status:     apiStatus,
	}

	m := &testServices{
		ingestion:  &mockIngestionService{},
		search:     &mockSearchService{},
		generation: &mockGenerationService{},
		insights:   &mockInsightsService{},
		document:   &mockDocumentService{},
		settings:   newMockSettingsService(),
	}
	SetServices(Services{
		Ingestion:  m.ingestion,
		Search:     m.search,
		Generation: m.generation,
		Insights:   m.insights,
		Document:   m.document,
		Settings:   m.settings,
	})

	return m, func() {
		SetServices(prev)
		resetFlags()
	}
}

func resetFlags() {
	searchLimit = domain.DefaultSearchLimit
	searchThreshold = domain.DefaultSearchThreshold
	searchScope = string(domain.CollectionEmbeddings)
	searchJSON = false
	ingestMeta = map[string]string{}
	ingestJSON = false
	profileLimit = 10
	similarLimit = 3
	profileIndustry = ""
	profileBusinessType = ""
	profileJSON = false
	generateTemplate = ""
	generateJSON = false
	insightsJSON = false
	documentLimit = 50
	documentJSON = false
	versionJSON = false
	mcpPort = 0
	mcpHost = "127.0.0.1"
	serveAddr = apihttp.DefaultAddr
	serveMaxUpload = apihttp.DefaultMaxUploadSize
	watchDebounce = watcher.DefaultDebounce
	watchScan = false
	verbose = false
	logJSON = false
}
