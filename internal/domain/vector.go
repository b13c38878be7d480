package domain

import (
	"fmt"
	"math"
)

// Vector is a fixed-dimension embedding vector. Every vector in a corpus has
// the same dimension, set by the embedding model.
type Vector []float32

// Cosine returns the cosine similarity of two vectors in [-1,1].
// Returns 0 for empty vectors, mismatched dimensions, or zero vectors.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineScore maps cosine similarity onto the [0,1] score scale used across
// the service: negative similarity clamps to 0, rounding overshoot to 1.
// This matches how Redis cosine distance is converted (max(0, 1-d)).
func CosineScore(a, b Vector) float64 {
	return clampScore(Cosine(a, b))
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Centroid returns the elementwise arithmetic mean of the given vectors.
// The mean is computed over exactly the vectors passed in; callers exclude
// unresolvable vectors rather than substituting zeros.
func Centroid(vectors []Vector) (Vector, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("centroid of zero vectors")
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d: %w",
				i, len(v), dim, ErrVectorDimMismatch)
		}
		for j, x := range v {
			sum[j] += float64(x)
		}
	}

	mean := make(Vector, dim)
	n := float64(len(vectors))
	for j := range sum {
		mean[j] = float32(sum[j] / n)
	}
	return mean, nil
}
