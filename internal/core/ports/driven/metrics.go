package driven

import "time"

// Metrics records operational counters for the pipeline.
// A nil Metrics is valid everywhere and records nothing.
type Metrics interface {
	// ObserveSearch records one similarity search.
	ObserveSearch(scope string, duration time.Duration, results int)

	// ObserveIngest records one ingested document.
	ObserveIngest(chunks int, err error)

	// IncEmbeddingFallback counts a vector served by the mock after a real provider failed.
	IncEmbeddingFallback()

	// IncSynthesisFallback counts content produced by the fallback template.
	IncSynthesisFallback(reason string)

	// IncInsightsCache counts insights cache lookups.
	IncInsightsCache(hit bool)
}
