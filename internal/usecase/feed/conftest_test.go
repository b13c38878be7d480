package feed

import (
	"context"

	"github.com/resurch-labs/resurch/internal/domain"
	"github.com/resurch-labs/resurch/internal/index"
)

type mockInteractions struct {
	listFn func(ctx context.Context, userID string, kind domain.InteractionKind) ([]string, error)
}

func (m *mockInteractions) ListPaperIDs(
	ctx context.Context, userID string, kind domain.InteractionKind,
) ([]string, error) {
	return m.listFn(ctx, userID, kind)
}

type mockVectors struct {
	getFn func(ctx context.Context, ids []string) (map[string]domain.Vector, error)
}

func (m *mockVectors) GetVectors(ctx context.Context, ids []string) (map[string]domain.Vector, error) {
	return m.getFn(ctx, ids)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, vector domain.Vector, k int) ([]index.Hit, error)
}

func (m *mockSearcher) SearchKNN(ctx context.Context, vector domain.Vector, k int) ([]index.Hit, error) {
	return m.searchFn(ctx, vector, k)
}

type mockPaperReader struct {
	getPapersFn func(ctx context.Context, ids []string) ([]domain.Paper, error)
}

func (m *mockPaperReader) GetPapers(ctx context.Context, ids []string) ([]domain.Paper, error) {
	return m.getPapersFn(ctx, ids)
}

func starsOf(ids ...string) *mockInteractions {
	return &mockInteractions{
		listFn: func(_ context.Context, _ string, _ domain.InteractionKind) ([]string, error) {
			return ids, nil
		},
	}
}

func vectorsOf(m map[string]domain.Vector) *mockVectors {
	return &mockVectors{
		getFn: func(_ context.Context, ids []string) (map[string]domain.Vector, error) {
			out := make(map[string]domain.Vector, len(ids))
			for _, id := range ids {
				if v, ok := m[id]; ok {
					out[id] = v
				}
			}
			return out, nil
		},
	}
}

// echoPapers hydrates ids into bare papers, preserving order.
func echoPapers() *mockPaperReader {
	return &mockPaperReader{
		getPapersFn: func(_ context.Context, ids []string) ([]domain.Paper, error) {
			out := make([]domain.Paper, 0, len(ids))
			for _, id := range ids {
				out = append(out, domain.Paper{ID: id, Title: "title-" + id})
			}
			return out, nil
		},
	}
}
