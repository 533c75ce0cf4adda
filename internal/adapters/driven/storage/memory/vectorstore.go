package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type entry struct {
	record domain.Record
	seq    uint64
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Records are copied on the way in and out.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[domain.Collection]map[string]entry
	seq         uint64
	now         func() time.Time
}

// Option configures the memory store.
type Option func(*VectorStore)

// WithClock overrides the time source used for records without CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *VectorStore) {
		s.now = now
	}
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore(opts ...Option) *VectorStore {
	s := &VectorStore{
		collections: make(map[domain.Collection]map[string]entry),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add inserts a record, assigning an id and timestamp when missing.
func (s *VectorStore) Add(_ context.Context, collection domain.Collection, record domain.Record) (string, error) {
	if !collection.IsValid() {
		return "", fmt.Errorf("collection %q: %w", collection, domain.ErrInvalidInput)
	}

	rec := record.Clone()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]entry)
		s.collections[collection] = coll
	}
	if _, exists := coll[rec.ID]; exists {
		return "", fmt.Errorf("record %s already exists: %w", rec.ID, domain.ErrInvalidInput)
	}

	s.seq++
	coll[rec.ID] = entry{record: rec, seq: s.seq}
	return rec.ID, nil
}

// Query returns matching records in the requested order.
func (s *VectorStore) Query(_ context.Context, collection domain.Collection, q domain.Query) ([]domain.Record, error) {
	if !collection.IsValid() {
		return nil, fmt.Errorf("collection %q: %w", collection, domain.ErrInvalidInput)
	}

	s.mu.RLock()
	matched := make([]entry, 0, len(s.collections[collection]))
	for _, e := range s.collections[collection] {
		if e.record.Matches(q.Filters) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if q.Descending {
			return lessEntry(matched[j], matched[i], q.OrderBy)
		}
		return lessEntry(matched[i], matched[j], q.OrderBy)
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	records := make([]domain.Record, len(matched))
	for i, e := range matched {
		records[i] = e.record.Clone()
	}
	return records, nil
}

// lessEntry orders by the requested field, then by insertion.
func lessEntry(a, b entry, field domain.OrderField) bool {
	switch field {
	case domain.OrderByPosition:
		if a.record.Position != b.record.Position {
			return a.record.Position < b.record.Position
		}
	default:
		if !a.record.CreatedAt.Equal(b.record.CreatedAt) {
			return a.record.CreatedAt.Before(b.record.CreatedAt)
		}
	}
	return a.seq < b.seq
}

// Get retrieves a record by id.
func (s *VectorStore) Get(_ context.Context, collection domain.Collection, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.collections[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec := e.record.Clone()
	return &rec, nil
}

// Delete removes a record by id.
func (s *VectorStore) Delete(_ context.Context, collection domain.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collections[collection]
	if _, ok := coll[id]; !ok {
		return domain.ErrNotFound
	}
	delete(coll, id)
	return nil
}

// Count returns the number of records in a collection.
func (s *VectorStore) Count(collection domain.Collection) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Close is a no-op for the memory store.
func (s *VectorStore) Close() error {
	return nil
}
