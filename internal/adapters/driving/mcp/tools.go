package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// SearchArgs are the arguments of the search tool.
type SearchArgs struct {
	Query     string   `json:"query" jsonschema:"the text to search for"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"minimum cosine similarity (default 0.7)"`
	Scope     string   `json:"scope,omitempty" jsonschema:"collection to search: embeddings or profiles (default embeddings)"`
}

type SearchResults struct {
	Hits  []Hit `json:"results"`
	Count int   `json:"count"`
}

// Hit is one matching chunk or profile.
type Hit struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

// ProfileArgs describe a company for generation and similarity lookups.
type ProfileArgs struct {
	BusinessName        string   `json:"business_name,omitempty" jsonschema:"company name"`
	Industry            string   `json:"industry" jsonschema:"industry sector"`
	BusinessType        string   `json:"business_type,omitempty" jsonschema:"type of business, e.g. agency or retail"`
	TargetAudience      string   `json:"target_audience,omitempty" jsonschema:"who the business serves"`
	BusinessDescription string   `json:"business_description,omitempty" jsonschema:"free-form description"`
	KeyServices         []string `json:"key_services,omitempty" jsonschema:"services offered"`
}

func (p ProfileArgs) profile() *domain.CompanyProfile {
	return &domain.CompanyProfile{
		BusinessName:        p.BusinessName,
		Industry:            p.Industry,
		BusinessType:        p.BusinessType,
		TargetAudience:      p.TargetAudience,
		BusinessDescription: p.BusinessDescription,
		KeyServices:         p.KeyServices,
	}
}

type GenerateArgs struct {
	Profile  ProfileArgs `json:"profile" jsonschema:"the company to generate content for"`
	Template string      `json:"template,omitempty" jsonschema:"website template name"`
}

type GenerateResult struct {
	ProfileID         string                  `json:"profile_id"`
	Template          string                  `json:"template,omitempty"`
	Fallback          bool                    `json:"fallback"`
	SimilarProfiles   int                     `json:"similar_profiles"`
	RelevantDocuments int                     `json:"relevant_documents"`
	Content           domain.GeneratedContent `json:"content"`
}

type InsightsArgs struct {
	Industry string `json:"industry" jsonschema:"industry to summarise"`
}

// InsightsResult mirrors domain.IndustryInsights with an RFC 3339 timestamp,
// empty when nothing has been computed yet.
type InsightsResult struct {
	Industry         string               `json:"industry"`
	TotalCompanies   int                  `json:"total_companies"`
	TopServices      []domain.RankedCount `json:"top_services"`
	PopularTemplates []domain.RankedCount `json:"popular_templates"`
	BusinessTypes    []domain.RankedCount `json:"business_types"`
	ComputedAt       string               `json:"computed_at,omitempty"`
}

type SimilarArgs struct {
	Profile ProfileArgs `json:"profile" jsonschema:"the company to compare against"`
	Limit   int         `json:"limit,omitempty" jsonschema:"maximum number of companies (default 3)"`
}

type SimilarResult struct {
	Companies []Company `json:"companies"`
	Count     int       `json:"count"`
}

// Company is a stored profile matched by similarity.
type Company struct {
	ID           string  `json:"id"`
	BusinessName string  `json:"business_name"`
	Industry     string  `json:"industry"`
	BusinessType string  `json:"business_type,omitempty"`
	Similarity   float64 `json:"similarity"`
}

type ListDocumentsArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of documents (default 50)"`
}

type DocumentList struct {
	Documents []DocumentSummary `json:"documents"`
	Count     int               `json:"count"`
}

type DocumentSummary struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	FileType   string `json:"file_type,omitempty"`
	Size       int64  `json:"size"`
	ChunkCount int    `json:"chunk_count"`
	CreatedAt  string `json:"created_at"`
}

// typed adapts a plain method to the SDK's handler shape. The SDK fills in
// structured and text content from the returned value.
func typed[In, Out any](fn func(context.Context, In) (Out, error)) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		return nil, out, err
	}
}

func convert[T, U any](in []T, fn func(*T) U) []U {
	out := make([]U, len(in))
	for i := range in {
		out[i] = fn(&in[i])
	}
	return out
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search across ingested document chunks or stored company profiles",
	}, typed(s.search))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_content",
		Description: "Generate website content for a company, informed by similar companies and relevant documents",
	}, typed(s.generate))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_insights",
		Description: "Service, template and business type statistics for an industry",
	}, typed(s.insights))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "similar_companies",
		Description: "Find stored companies comparable to a profile",
	}, typed(s.similarCompanies))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents, newest first",
	}, typed(s.listDocuments))
}

// search leaves zero limit and nil threshold for the service to default.
func (s *Server) search(ctx context.Context, args SearchArgs) (SearchResults, error) {
	results, err := s.ports.Search.Search(ctx, args.Query, domain.SearchOptions{
		Limit:     args.Limit,
		Threshold: args.Threshold,
		Scope:     domain.Collection(args.Scope),
	})
	if err != nil {
		return SearchResults{}, err
	}
	hits := convert(results, func(r *domain.SimilarityResult) Hit {
		return Hit{ID: r.ID, DocumentID: r.DocumentID, ChunkIndex: r.ChunkIndex, Text: r.Text, Similarity: r.Score}
	})
	return SearchResults{Hits: hits, Count: len(hits)}, nil
}

func (s *Server) generate(ctx context.Context, args GenerateArgs) (GenerateResult, error) {
	if s.ports.Generation == nil {
		return GenerateResult{}, fmt.Errorf("generate_content: %w", errServiceUnavailable)
	}
	res, err := s.ports.Generation.Generate(ctx, args.Profile.profile(), args.Template)
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{
		ProfileID:         res.ProfileID,
		Template:          res.Template,
		Fallback:          res.Fallback,
		SimilarProfiles:   res.SimilarProfiles,
		RelevantDocuments: res.RelevantDocuments,
		Content:           res.Content,
	}, nil
}

func (s *Server) insights(ctx context.Context, args InsightsArgs) (InsightsResult, error) {
	if s.ports.Insights == nil {
		return InsightsResult{}, fmt.Errorf("get_insights: %w", errServiceUnavailable)
	}
	ins, err := s.ports.Insights.GetInsights(ctx, args.Industry)
	if err != nil {
		return InsightsResult{}, err
	}
	res := InsightsResult{
		Industry:         ins.Industry,
		TotalCompanies:   ins.TotalCompanies,
		TopServices:      ins.TopServices,
		PopularTemplates: ins.PopularTemplates,
		BusinessTypes:    ins.BusinessTypes,
	}
	if !ins.ComputedAt.IsZero() {
		res.ComputedAt = ins.ComputedAt.Format(time.RFC3339)
	}
	return res, nil
}

func (s *Server) similarCompanies(ctx context.Context, args SimilarArgs) (SimilarResult, error) {
	results, err := s.ports.Search.FindSimilarProfiles(ctx, args.Profile.profile(), args.Limit)
	if err != nil {
		return SimilarResult{}, err
	}
	companies := convert(results, func(r *domain.SimilarityResult) Company {
		return Company{
			ID:           r.ID,
			BusinessName: r.Attributes[domain.AttrBusinessName],
			Industry:     r.Attributes[domain.AttrIndustry],
			BusinessType: r.Attributes[domain.AttrBusinessType],
			Similarity:   r.Score,
		}
	})
	return SimilarResult{Companies: companies, Count: len(companies)}, nil
}

func (s *Server) listDocuments(ctx context.Context, args ListDocumentsArgs) (DocumentList, error) {
	if s.ports.Document == nil {
		return DocumentList{}, fmt.Errorf("list_documents: %w", errServiceUnavailable)
	}
	docs, err := s.ports.Document.List(ctx, args.Limit)
	if err != nil {
		return DocumentList{}, err
	}
	summaries := convert(docs, summarise)
	return DocumentList{Documents: summaries, Count: len(summaries)}, nil
}

func summarise(doc *domain.Document) DocumentSummary {
	return DocumentSummary{
		ID:         doc.ID,
		FileName:   doc.SourceName,
		FileType:   doc.MIMEType,
		Size:       doc.Size,
		ChunkCount: doc.ChunkCount,
		CreatedAt:  doc.CreatedAt.Format(time.RFC3339),
	}
}
