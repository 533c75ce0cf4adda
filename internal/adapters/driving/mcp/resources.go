package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	scheme   = "contentrag://"
	mimeJSON = "application/json"
	mimeText = "text/plain"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         scheme + "documents",
		Name:        "documents",
		Description: "Most recently ingested documents",
		MIMEType:    mimeJSON,
	}, s.readDocuments)

	templates := []struct {
		tmpl    *mcp.ResourceTemplate
		handler mcp.ResourceHandler
	}{
		{&mcp.ResourceTemplate{
			URITemplate: scheme + "documents/{documentId}",
			Name:        "document-content",
			Description: "Extracted text of a specific document",
			MIMEType:    mimeText,
		}, s.readDocumentText},
		{&mcp.ResourceTemplate{
			URITemplate: scheme + "insights/{industry}",
			Name:        "industry-insights",
			Description: "Service, template and business type statistics for an industry",
			MIMEType:    mimeJSON,
		}, s.readInsights},
	}
	for _, t := range templates {
		s.server.AddResourceTemplate(t.tmpl, t.handler)
	}
}

// readDocuments serves an empty array when no document service is wired.
func (s *Server) readDocuments(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	out := []DocumentSummary{}
	if s.ports.Document != nil {
		docs, err := s.ports.Document.List(ctx, 0)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		out = append(out, convert(docs, summarise)...)
	}
	return jsonContents(req.Params.URI, out)
}

func (s *Server) readDocumentText(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	id := uriParam(uri, "documents")
	if s.ports.Document == nil || id == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	detail, err := s.ports.Document.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return contents(uri, mimeText, detail.Text), nil
}

func (s *Server) readInsights(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	industry := uriParam(uri, "insights")
	if s.ports.Insights == nil || industry == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	insights, err := s.ports.Insights.GetInsights(ctx, industry)
	if err != nil {
		return nil, fmt.Errorf("insights for %s: %w", industry, err)
	}
	return jsonContents(uri, insights)
}

func contents(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeType, Text: text}},
	}
}

func jsonContents(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", uri, err)
	}
	return contents(uri, mimeJSON, string(data)), nil
}

// uriParam returns the single unescaped segment after scheme+collection+"/",
// or "" if uri has any other shape.
func uriParam(uri, collection string) string {
	rest, ok := strings.CutPrefix(uri, scheme+collection+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	v, err := url.PathUnescape(rest)
	if err != nil {
		return ""
	}
	return v
}
