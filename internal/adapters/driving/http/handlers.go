package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	stdhttp "net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

type searchRequest struct {
	Query     string   `json:"query"`
	Limit     int      `json:"limit"`
	Threshold *float64 `json:"threshold"`
	Scope     string   `json:"scope"`
}

type similarRequest struct {
	CompanyData *domain.CompanyProfile `json:"companyData"`
	Limit       int                    `json:"limit"`
}

type generateRequest struct {
	Config   *domain.CompanyProfile `json:"config"`
	Template string                 `json:"template"`
}

type ingestRequest struct {
	Name     string         `json:"name"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

const defaultSimilarLimit = 5

func (s *Server) health(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.cfg.Status,
	})
}

func (s *Server) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		badRequest(c, "Query required")
		return
	}

	results, err := s.ports.Search.Search(c.Request.Context(), req.Query, domain.SearchOptions{
		Limit:     req.Limit,
		Threshold: req.Threshold,
		Scope:     domain.Collection(req.Scope),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"success": true, "query": req.Query, "results": results})
}

func (s *Server) searchCompanies(c *gin.Context) {
	query := c.Query("query")
	filter := domain.CompanyFilter{
		Industry:     c.Query("industry"),
		BusinessType: c.Query("businessType"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
		filter.Limit = limit
	}

	companies, err := s.ports.Search.SearchCompanies(c.Request.Context(), query, filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{
		"success":   true,
		"companies": companies,
		"total":     len(companies),
		"query":     query,
		"filters":   filter,
	})
}

func (s *Server) storeCompany(c *gin.Context) {
	var profile domain.CompanyProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if profile.BusinessName == "" || profile.Industry == "" {
		badRequest(c, "Business name and industry are required")
		return
	}

	id, err := s.ports.Ingestion.StoreProfile(c.Request.Context(), &profile)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{
		"success":   true,
		"message":   "Company data stored successfully",
		"companyId": id,
	})
}

func (s *Server) similar(c *gin.Context) {
	var req similarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.CompanyData == nil || req.CompanyData.Industry == "" {
		badRequest(c, "Company data with industry is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSimilarLimit
	}

	results, err := s.ports.Search.FindSimilarProfiles(c.Request.Context(), req.CompanyData, req.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{
		"success":          true,
		"similarCompanies": results,
		"metadata": gin.H{
			"searchCompany": req.CompanyData.BusinessName,
			"industry":      req.CompanyData.Industry,
			"resultCount":   len(results),
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) generate(c *gin.Context) {
	if s.ports.Generation == nil {
		c.JSON(stdhttp.StatusServiceUnavailable, gin.H{"success": false, "error": "generation is not configured"})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Config == nil || req.Config.BusinessName == "" {
		badRequest(c, "Config with business name is required")
		return
	}
	result, err := s.ports.Generation.Generate(c.Request.Context(), req.Config, req.Template)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{
		"success": true,
		"content": result.Content,
		"metadata": gin.H{
			"businessName":      req.Config.BusinessName,
			"industry":          req.Config.Industry,
			"template":          result.Template,
			"profileId":         result.ProfileID,
			"vectorEnhanced":    true,
			"fallback":          result.Fallback,
			"similarProfiles":   result.SimilarProfiles,
			"relevantDocuments": result.RelevantDocuments,
			"generatedAt":       time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) ingestText(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := s.ports.Ingestion.IngestText(c.Request.Context(), req.Name, req.Text, req.Metadata)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"success": true, "data": result})
}

func (s *Server) upload(c *gin.Context) {
	c.Request.Body = stdhttp.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadSize+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "No file provided")
		return
	}
	if header.Size > s.cfg.MaxUploadSize {
		fail(c, fmt.Errorf("%s is %d bytes: %w", header.Filename, header.Size, domain.ErrFileTooLarge))
		return
	}

	metadata := map[string]any{}
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			badRequest(c, "metadata must be a JSON object")
			return
		}
	}
	metadata["processedAt"] = time.Now().UTC().Format(time.RFC3339)

	f, err := header.Open()
	if err != nil {
		fail(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		fail(c, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.ports.Ingestion.IngestFile(c.Request.Context(), domain.RawFile{
		Name:     header.Filename,
		MIMEType: uploadMIMEType(header.Header.Get("Content-Type"), header.Filename),
		Content:  content,
	}, metadata)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{
		"success": true,
		"message": "File processed and vectorized successfully",
		"data":    result,
	})
}

// uploadMIMEType prefers the declared part type, falling back to the extension.
func uploadMIMEType(declared, name string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		return byExt
	}
	return declared
}

func (s *Server) listDocuments(c *gin.Context) {
	if s.ports.Document == nil {
		c.JSON(stdhttp.StatusOK, gin.H{"success": true, "documents": []domain.Document{}})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
	}

	docs, err := s.ports.Document.List(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"success": true, "documents": docs})
}

func (s *Server) getDocument(c *gin.Context) {
	if s.ports.Document == nil {
		fail(c, domain.ErrNotFound)
		return
	}

	doc, err := s.ports.Document.Get(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"success": true, "document": doc})
}

func (s *Server) deleteDocument(c *gin.Context) {
	if s.ports.Document == nil {
		fail(c, domain.ErrNotFound)
		return
	}

	if err := s.ports.Document.Delete(c.Request.Context(), c.Param("documentId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"success": true, "message": "Document deleted"})
}

func (s *Server) insights(c *gin.Context) {
	if s.ports.Insights == nil {
		c.JSON(stdhttp.StatusServiceUnavailable, gin.H{"success": false, "error": "insights are not configured"})
		return
	}

	insights, err := s.ports.Insights.GetInsights(c.Request.Context(), c.Param("industry"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"success": true, "insights": insights})
}
