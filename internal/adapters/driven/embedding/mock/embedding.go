// Package mock provides a deterministic embedding service that needs no network.
package mock

import (
	"context"
	"math"
	"unicode/utf16"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// ModelName is reported for mock vectors.
const ModelName = "mock-hash"

// EmbeddingService derives vectors from a string hash.
// Identical input always yields a bit-identical vector.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a mock embedder. A non-positive size uses
// domain.DefaultEmbeddingDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = domain.DefaultEmbeddingDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed returns the hash-seeded vector for text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	return Vector(text, s.dimensions), nil
}

// EmbedBatch embeds each text.
func (s *EmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = Vector(t, s.dimensions)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the mock model name.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// Hash folds the UTF-16 code units of text into a 32-bit signed hash
// (h = h*31 + c, wrapping).
func Hash(text string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(text)) {
		h = h*31 + int32(c)
	}
	return h
}

// Vector computes v[i] = sin(h+i) * cos(h*i) * 0.1.
func Vector(text string, dimensions int) []float32 {
	h := float64(Hash(text))
	v := make([]float32, dimensions)
	for i := range v {
		fi := float64(i)
		v[i] = float32(math.Sin(h+fi) * math.Cos(h*fi) * 0.1)
	}
	return v
}
