// Package prometheus records pipeline metrics with the Prometheus client.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

const namespace = "contentrag"

// Metrics holds all collectors, registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	searchDuration     *prometheus.HistogramVec
	searchResults      *prometheus.HistogramVec
	documentsIngested  *prometheus.CounterVec
	chunksCreated      prometheus.Counter
	embeddingFallbacks prometheus.Counter
	synthesisFallbacks *prometheus.CounterVec
	insightsCache      *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		searchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of similarity searches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scope"}),
		searchResults: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}, []string{"scope"}),
		documentsIngested: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_ingested_total",
			Help:      "Documents ingested, by outcome",
		}, []string{"status"}),
		chunksCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_created_total",
			Help:      "Chunks embedded and stored",
		}),
		embeddingFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_fallbacks_total",
			Help:      "Embedding calls served by the mock provider",
		}),
		synthesisFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_fallbacks_total",
			Help:      "Content produced by the fallback template, by reason",
		}, []string{"reason"}),
		insightsCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_cache_lookups_total",
			Help:      "Insights cache lookups, by result",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveSearch records one similarity search.
func (m *Metrics) ObserveSearch(scope string, d time.Duration, results int) {
	m.searchDuration.WithLabelValues(scope).Observe(d.Seconds())
	m.searchResults.WithLabelValues(scope).Observe(float64(results))
}

// ObserveIngest records one ingested document.
func (m *Metrics) ObserveIngest(chunks int, err error) {
	if err != nil {
		m.documentsIngested.WithLabelValues("error").Inc()
		return
	}
	m.documentsIngested.WithLabelValues("ok").Inc()
	m.chunksCreated.Add(float64(chunks))
}

// IncEmbeddingFallback counts a mock-served embedding.
func (m *Metrics) IncEmbeddingFallback() {
	m.embeddingFallbacks.Inc()
}

// IncSynthesisFallback counts fallback content.
func (m *Metrics) IncSynthesisFallback(reason string) {
	m.synthesisFallbacks.WithLabelValues(reason).Inc()
}

// IncInsightsCache counts an insights cache lookup.
func (m *Metrics) IncInsightsCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.insightsCache.WithLabelValues(result).Inc()
}

// ObserveHTTP records one HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
