package domain

import "time"

// Search defaults.
const (
	// DefaultSearchLimit is the number of results returned when no limit is given.
	DefaultSearchLimit = 5

	// DefaultSearchThreshold is the minimum similarity kept when no threshold is given.
	DefaultSearchThreshold = 0.7

	// DefaultCandidateLimit bounds how many recent records a search scores.
	DefaultCandidateLimit = 100

	// SimilarProfileThreshold is the minimum similarity for comparable profiles.
	SimilarProfileThreshold = 0.6

	// CompanyMatchThreshold is the exclusive minimum similarity for company search.
	CompanyMatchThreshold = 0.3
)

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// Limit is the maximum number of results (default 5).
	Limit int `json:"limit,omitempty"`

	// Threshold is the minimum similarity kept. Nil means the default of 0.7.
	Threshold *float64 `json:"threshold,omitempty"`

	// Scope is the collection searched (default embeddings).
	Scope Collection `json:"scope,omitempty"`
}

// WithDefaults returns the options with zero values replaced by defaults.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.Threshold == nil {
		t := DefaultSearchThreshold
		o.Threshold = &t
	}
	if o.Scope == "" {
		o.Scope = CollectionEmbeddings
	}
	return o
}

// Threshold returns a pointer for use in SearchOptions.
func Threshold(v float64) *float64 {
	return &v
}

// SimilarityResult pairs a stored record with its similarity to a query.
// It is transient and never persisted.
type SimilarityResult struct {
	// ID is the matched record id.
	ID string `json:"id"`

	// Collection is where the record lives.
	Collection Collection `json:"collection"`

	// DocumentID is the parent document, if any.
	DocumentID string `json:"documentId,omitempty"`

	// ChunkIndex is the position within the parent document.
	ChunkIndex int `json:"chunkIndex"`

	// Text is the matched passage.
	Text string `json:"text"`

	// Score is the cosine similarity in [-1, 1].
	Score float64 `json:"similarity"`

	// Attributes are the record's filterable fields.
	Attributes map[string]string `json:"metadata,omitempty"`

	// CreatedAt is when the matched record was written.
	CreatedAt time.Time `json:"createdAt"`
}
