package index

import (
	"context"
	"fmt"
	"sort"

	"github.com/resurch-labs/resurch/internal/domain"
)

// Memory is a brute-force exact index: search scans every stored vector.
// O(N*D) per query, fine for corpora up to tens of thousands of papers.
//
// Population happens offline; the index is read-only at query time and is
// not safe for concurrent mutation.
type Memory struct {
	dim     int
	ids     []string
	vectors map[string]domain.Vector
}

// NewMemory creates an empty in-memory index for vectors of the given dimension.
func NewMemory(dim int) *Memory {
	return &Memory{
		dim:     dim,
		vectors: make(map[string]domain.Vector),
	}
}

// Add stores a vector under the given id. Re-adding an id replaces its vector
// and keeps its original insertion position.
func (m *Memory) Add(id string, vector domain.Vector) error {
	if len(vector) != m.dim {
		return fmt.Errorf("add %q: got dimension %d, want %d: %w",
			id, len(vector), m.dim, domain.ErrVectorDimMismatch)
	}
	if _, exists := m.vectors[id]; !exists {
		m.ids = append(m.ids, id)
	}
	m.vectors[id] = vector
	return nil
}

// AddBatch stores multiple id/vector pairs. Vectors[i] belongs to ids[i].
func (m *Memory) AddBatch(ids []string, vectors []domain.Vector) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("add batch: %d ids but %d vectors", len(ids), len(vectors))
	}
	for i, id := range ids {
		if err := m.Add(id, vectors[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of indexed vectors.
func (m *Memory) Len() int { return len(m.ids) }

// SearchKNN returns the k nearest vectors by cosine similarity, sorted by
// non-increasing score. Ties keep insertion order, so identical inputs
// always produce identical output ordering. k larger than the index size
// returns all entries.
func (m *Memory) SearchKNN(ctx context.Context, query domain.Vector, k int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != m.dim {
		return nil, fmt.Errorf("search: got dimension %d, want %d: %w",
			len(query), m.dim, domain.ErrVectorDimMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, len(m.ids))
	for _, id := range m.ids {
		hits = append(hits, Hit{
			ID:    id,
			Score: domain.CosineScore(query, m.vectors[id]),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}
