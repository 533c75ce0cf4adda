package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// CosineSimilarity returns dot(a,b)/(|a||b|).
// It is 0 when either vector has zero norm and fails with
// domain.ErrDimensionMismatch when the lengths differ.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim)), nil
}
