package domain

import (
	"encoding/json"
	"time"
)

// Collection names a group of records in a VectorStore.
type Collection string

// Collections used by the content engine.
const (
	// CollectionProfiles holds company profiles and their embeddings.
	CollectionProfiles Collection = "profiles"

	// CollectionDocuments holds ingested document metadata and text.
	CollectionDocuments Collection = "documents"

	// CollectionEmbeddings holds embedded document chunks.
	CollectionEmbeddings Collection = "embeddings"

	// CollectionInsights holds cached industry insights.
	CollectionInsights Collection = "insights"
)

// IsValid returns true if the collection is recognised.
func (c Collection) IsValid() bool {
	switch c {
	case CollectionProfiles, CollectionDocuments, CollectionEmbeddings, CollectionInsights:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Collection) String() string {
	return string(c)
}

// AllCollections returns every collection the engine uses.
func AllCollections() []Collection {
	return []Collection{
		CollectionProfiles,
		CollectionDocuments,
		CollectionEmbeddings,
		CollectionInsights,
	}
}

// Record is the unit persisted by a VectorStore.
// Typed entities convert to and from records; the Payload carries the
// full entity while the other fields are what stores filter, order and score on.
type Record struct {
	// ID is the unique identifier within the collection.
	ID string

	// ParentID links a record to its parent document. Empty for standalone records.
	ParentID string

	// Position is the ordinal position within the parent (chunk index).
	Position int

	// Attributes holds equality-filterable string fields.
	Attributes map[string]string

	// Text is the passage the embedding was computed from.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Payload is the JSON-encoded entity.
	Payload json.RawMessage

	// CreatedAt is when the record was written.
	CreatedAt time.Time
}

// Attribute returns the named attribute, or the parent id for FieldParentID.
func (r *Record) Attribute(field string) string {
	if field == FieldParentID {
		return r.ParentID
	}
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[field]
}

// Matches reports whether the record satisfies every filter.
func (r *Record) Matches(filters []Filter) bool {
	for _, f := range filters {
		if r.Attribute(f.Field) != f.Value {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	c := r
	if r.Attributes != nil {
		c.Attributes = make(map[string]string, len(r.Attributes))
		for k, v := range r.Attributes {
			c.Attributes[k] = v
		}
	}
	if r.Embedding != nil {
		c.Embedding = append([]float32(nil), r.Embedding...)
	}
	if r.Payload != nil {
		c.Payload = append(json.RawMessage(nil), r.Payload...)
	}
	return c
}

// FieldParentID filters records by their parent document.
const FieldParentID = "parent_id"

// Attribute names written by the entity conversions.
const (
	AttrIndustry     = "industry"
	AttrBusinessType = "business_type"
	AttrBusinessName = "business_name"
	AttrTemplate     = "template"
	AttrSourceName   = "source_name"
	AttrMIMEType     = "mime_type"
	AttrChunkID      = "chunk_id"
)

// Filter is an equality test on a record field.
type Filter struct {
	Field string
	Value string
}

// OrderField selects the ordering of query results.
type OrderField string

// Supported orderings.
const (
	// OrderByCreatedAt orders by creation time, ties by insertion order.
	OrderByCreatedAt OrderField = "created_at"

	// OrderByPosition orders by position within the parent.
	OrderByPosition OrderField = "position"
)

// Query selects records from a collection.
type Query struct {
	// Filters are combined with AND.
	Filters []Filter

	// OrderBy is the sort field. Empty defaults to OrderByCreatedAt.
	OrderBy OrderField

	// Descending reverses the order.
	Descending bool

	// Limit caps the result size. Zero or negative means no limit.
	Limit int
}

// Where returns a copy of the query with an extra equality filter.
func (q Query) Where(field, value string) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Value: value})
	return q
}

// Newest returns a query for the most recent records, newest first.
func Newest(limit int) Query {
	return Query{OrderBy: OrderByCreatedAt, Descending: true, Limit: limit}
}

func encodePayload(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func decodePayload(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
