// Package http exposes the retrieval pipeline as a JSON REST API built on gin.
// Routes live under /api/vector; every response carries a "success" flag.
package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Default configuration values.
const (
	DefaultAddr          = ":8080"
	DefaultMaxUploadSize = 10 << 20

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ErrMissingService is returned when a required driving port is nil.
var ErrMissingService = errors.New("http: search and ingestion services are required")

// Ports aggregates the driving ports the API exposes.
type Ports struct {
	Search     driving.SearchService
	Ingestion  driving.IngestionService
	Generation driving.GenerationService
	Insights   driving.InsightsService
	Document   driving.DocumentService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil || p.Ingestion == nil {
		return ErrMissingService
	}
	return nil
}

// Metrics records request outcomes and serves the scrape endpoint.
type Metrics interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
	Handler() stdhttp.Handler
}

// Status describes the wired providers for the health endpoint.
type Status struct {
	EmbeddingModel string `json:"embeddingModel"`
	Dimensions     int    `json:"dimensions"`
	MockEmbeddings bool   `json:"mockEmbeddings"`
	LLMModel       string `json:"llmModel,omitempty"`
	Store          string `json:"store"`
}

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (default ":8080").
	Addr string

	// MaxUploadSize bounds multipart uploads in bytes (default 10 MiB).
	MaxUploadSize int64

	// Metrics is optional. When set, requests are observed and /metrics is served.
	Metrics Metrics

	// Status is reported by /api/vector/health.
	Status Status
}

// Server serves the REST API.
type Server struct {
	ports  *Ports
	cfg    Config
	engine *gin.Engine
}

// NewServer validates ports and builds the router.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}

	s := &Server{ports: ports, cfg: cfg}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the router, for tests and embedding in other servers.
func (s *Server) Handler() stdhttp.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if s.cfg.Metrics != nil {
		r.Use(observe(s.cfg.Metrics))
		r.GET("/metrics", gin.WrapH(s.cfg.Metrics.Handler()))
	}
	r.MaxMultipartMemory = s.cfg.MaxUploadSize

	api := r.Group("/api/vector")
	api.GET("/health", s.health)
	api.POST("/search", s.search)
	api.GET("/companies", s.searchCompanies)
	api.POST("/companies", s.storeCompany)
	api.POST("/similar", s.similar)
	api.POST("/generate", s.generate)
	api.POST("/ingest", s.ingestText)
	api.POST("/upload", s.upload)
	api.GET("/documents", s.listDocuments)
	api.GET("/documents/:documentId", s.getDocument)
	api.DELETE("/documents/:documentId", s.deleteDocument)
	api.GET("/insights/:industry", s.insights)

	return r
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &stdhttp.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown: %v", err)
		}
	}()

	logger.Info("HTTP API listening on %s", s.cfg.Addr)
	err := srv.ListenAndServe()
	if errors.Is(err, stdhttp.ErrServerClosed) {
		return nil
	}
	return err
}
