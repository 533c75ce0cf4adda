package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

func TestServer_search(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SimilarityResult{{
				ID:         "doc-1_chunk_0",
				DocumentID: "doc-1",
				Text:       "Plumbing best practices",
				Score:      0.95,
			}},
		}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		input := SearchArgs{Query: "plumbing", Limit: 3, Scope: "profiles", Threshold: domain.Threshold(0.5)}
		output, err := server.search(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Hits, 1)
		assert.Equal(t, "doc-1", output.Hits[0].DocumentID)
		assert.Equal(t, "Plumbing best practices", output.Hits[0].Text)
		assert.InDelta(t, 0.95, output.Hits[0].Similarity, 1e-9)

		assert.Equal(t, "plumbing", mockSearch.lastQuery)
		assert.Equal(t, 3, mockSearch.lastOpts.Limit)
		assert.Equal(t, domain.CollectionProfiles, mockSearch.lastOpts.Scope)
		require.NotNil(t, mockSearch.lastOpts.Threshold)
		assert.InDelta(t, 0.5, *mockSearch.lastOpts.Threshold, 1e-9)
	})

	t.Run("zero values are left for the service to default", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		output, err := server.search(ctx, SearchArgs{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Zero(t, mockSearch.lastOpts.Limit)
		assert.Nil(t, mockSearch.lastOpts.Threshold)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{err: errors.New("search failed")}})
		require.NoError(t, err)

		_, err = server.search(ctx, SearchArgs{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_generate(t *testing.T) {
	ctx := context.Background()

	t.Run("passes profile and template", func(t *testing.T) {
		gen := &mockGenerationService{
			result: &domain.GenerationResult{
				ProfileID:       "p-1",
				Template:        "modern",
				Fallback:        true,
				SimilarProfiles: 2,
				Content: domain.GeneratedContent{
					Hero: domain.HeroSection{Headline: "Welcome to Acme"},
				},
			},
		}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Generation: gen})
		require.NoError(t, err)

		input := GenerateArgs{
			Profile: ProfileArgs{
				BusinessName: "Acme",
				Industry:     "plumbing",
				KeyServices:  []string{"Repairs"},
			},
			Template: "modern",
		}
		output, err := server.generate(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "p-1", output.ProfileID)
		assert.True(t, output.Fallback)
		assert.Equal(t, 2, output.SimilarProfiles)
		assert.Equal(t, "Welcome to Acme", output.Content.Hero.Headline)

		require.NotNil(t, gen.lastProfile)
		assert.Equal(t, "Acme", gen.lastProfile.BusinessName)
		assert.Equal(t, []string{"Repairs"}, gen.lastProfile.KeyServices)
		assert.Equal(t, "modern", gen.lastTemplate)
	})

	t.Run("missing generation service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, err = server.generate(ctx, GenerateArgs{})
		assert.ErrorIs(t, err, errServiceUnavailable)
	})

	t.Run("propagates invalid input", func(t *testing.T) {
		gen := &mockGenerationService{err: domain.ErrInvalidInput}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Generation: gen})
		require.NoError(t, err)

		_, err = server.generate(ctx, GenerateArgs{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_insights(t *testing.T) {
	ctx := context.Background()
	computed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("formats computed time", func(t *testing.T) {
		ins := &mockInsightsService{insights: &domain.IndustryInsights{
			Industry:       "plumbing",
			TotalCompanies: 3,
			TopServices:    []domain.RankedCount{{Value: "Repairs", Count: 2}},
			ComputedAt:     computed,
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Insights: ins})
		require.NoError(t, err)

		output, err := server.insights(ctx, InsightsArgs{Industry: "plumbing"})

		require.NoError(t, err)
		assert.Equal(t, 3, output.TotalCompanies)
		assert.Equal(t, "2024-03-01T12:00:00Z", output.ComputedAt)
		assert.Equal(t, []domain.RankedCount{{Value: "Repairs", Count: 2}}, output.TopServices)
	})

	t.Run("empty insights omit computed time", func(t *testing.T) {
		ins := &mockInsightsService{insights: domain.EmptyInsights("none")}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Insights: ins})
		require.NoError(t, err)

		output, err := server.insights(ctx, InsightsArgs{Industry: "none"})

		require.NoError(t, err)
		assert.Zero(t, output.TotalCompanies)
		assert.Empty(t, output.ComputedAt)
	})

	t.Run("missing insights service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, err = server.insights(ctx, InsightsArgs{Industry: "x"})
		assert.ErrorIs(t, err, errServiceUnavailable)
	})
}

func TestServer_similarCompanies(t *testing.T) {
	ctx := context.Background()
	mockSearch := &mockSearchService{
		results: []domain.SimilarityResult{{
			ID:    "p-9",
			Score: 0.82,
			Attributes: map[string]string{
				domain.AttrBusinessName: "Pipes Ltd",
				domain.AttrIndustry:     "plumbing",
				domain.AttrBusinessType: "contractor",
			},
		}},
	}
	server, err := NewServer(&Ports{Search: mockSearch})
	require.NoError(t, err)

	input := SimilarArgs{
		Profile: ProfileArgs{Industry: "plumbing", BusinessType: "contractor"},
		Limit:   2,
	}
	output, err := server.similarCompanies(ctx, input)

	require.NoError(t, err)
	require.Len(t, output.Companies, 1)
	assert.Equal(t, Company{
		ID:           "p-9",
		BusinessName: "Pipes Ltd",
		Industry:     "plumbing",
		BusinessType: "contractor",
		Similarity:   0.82,
	}, output.Companies[0])
	assert.Equal(t, 2, mockSearch.lastLimit)
	assert.Equal(t, "contractor", mockSearch.lastProfile.BusinessType)
}

func TestServer_listDocuments(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("lists documents", func(t *testing.T) {
		docs := &mockDocumentService{documents: []domain.Document{{
			ID:         "doc-1",
			SourceName: "guide.txt",
			MIMEType:   "text/plain",
			Size:       42,
			ChunkCount: 1,
			CreatedAt:  created,
		}}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: docs})
		require.NoError(t, err)

		output, err := server.listDocuments(ctx, ListDocumentsArgs{})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "guide.txt", output.Documents[0].FileName)
		assert.Equal(t, "2024-01-02T03:04:05Z", output.Documents[0].CreatedAt)
	})

	t.Run("missing document service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, err = server.listDocuments(ctx, ListDocumentsArgs{})
		assert.ErrorIs(t, err, errServiceUnavailable)
	})
}

func TestTools_OverTransport(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(&Ports{Search: &mockSearchService{
		results: []domain.SimilarityResult{{ID: "c1", DocumentID: "d1", Text: "hello", Score: 0.9}},
	}})
	require.NoError(t, err)

	clientT, serverT := mcp.NewInMemoryTransports()
	ss, err := server.server.Connect(ctx, serverT, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"search", "generate_content", "get_insights", "similar_companies", "list_documents"}, names)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "search", Arguments: map[string]any{"query": "hi"}})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.NotNil(t, res.StructuredContent)

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "list_documents", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
