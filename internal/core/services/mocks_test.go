package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/contentrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var errStorage = errors.New("storage unavailable")

// mockEmbedder returns fixed vectors per text and a default otherwise.
type mockEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors:  make(map[string][]float32),
		fallback: []float32{1, 0, 0},
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return len(m.fallback) }
func (m *mockEmbedder) ModelName() string            { return "mock" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM returns a canned reply.
type mockLLM struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
	lastOpts   driven.CompletionOptions
}

func (m *mockLLM) Complete(_ context.Context, system, user string, opts driven.CompletionOptions) (string, error) {
	m.lastSystem, m.lastUser, m.lastOpts = system, user, opts
	return m.reply, m.err
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.CompletionOptions) (string, error) {
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// faultyStore wraps the memory store and fails selected operations.
type faultyStore struct {
	*memory.VectorStore
	failAddAfter map[domain.Collection]int
	failDelete   map[string]bool
	adds         map[domain.Collection]int
}

func newFaultyStore() *faultyStore {
	return &faultyStore{
		VectorStore:  memory.NewVectorStore(),
		failAddAfter: make(map[domain.Collection]int),
		failDelete:   make(map[string]bool),
		adds:         make(map[domain.Collection]int),
	}
}

func (s *faultyStore) Add(ctx context.Context, c domain.Collection, r domain.Record) (string, error) {
	if limit, ok := s.failAddAfter[c]; ok && s.adds[c] >= limit {
		return "", errStorage
	}
	s.adds[c]++
	return s.VectorStore.Add(ctx, c, r)
}

func (s *faultyStore) Delete(ctx context.Context, c domain.Collection, id string) error {
	if s.failDelete[id] {
		return errStorage
	}
	return s.VectorStore.Delete(ctx, c, id)
}

// mockBlobStore keeps blobs in a map.
type mockBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (b *mockBlobStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = data
	return "mem://" + key, nil
}

func (b *mockBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (b *mockBlobStore) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.blobs[key]; !ok {
		return domain.ErrNotFound
	}
	delete(b.blobs, key)
	return nil
}

// mockMetrics counts calls.
type mockMetrics struct {
	mu                 sync.Mutex
	searches           int
	ingests            int
	synthesisFallbacks []string
	cacheHits          int
	cacheMisses        int
}

func (m *mockMetrics) ObserveSearch(string, time.Duration, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
}

func (m *mockMetrics) ObserveIngest(int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingests++
}

func (m *mockMetrics) IncEmbeddingFallback() {}

func (m *mockMetrics) IncSynthesisFallback(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synthesisFallbacks = append(m.synthesisFallbacks, reason)
}

func (m *mockMetrics) IncInsightsCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

// fixedClock returns a controllable clock.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }
