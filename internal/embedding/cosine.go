package embedding

import (
	"fmt"
	"math"
)

// Cosine returns the cosine similarity dot(a,b)/(|a|*|b|) in [-1, 1].
// Mismatched dimensions are an error; a zero-norm vector has no
// direction and yields similarity 0.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Guard against floating-point drift past the mathematical range.
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return cos, nil
}

// MeanPool averages a set of token vectors into one pooled vector.
// Returns nil for an empty set.
func MeanPool(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	pooled := make([]float64, len(vectors[0]))
	for _, vec := range vectors {
		for i := range pooled {
			if i < len(vec) {
				pooled[i] += vec[i]
			}
		}
	}
	for i := range pooled {
		pooled[i] /= float64(len(vectors))
	}
	return pooled
}
