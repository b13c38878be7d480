package search

import (
	"context"

	"github.com/resurch-labs/resurch/internal/domain"
	"github.com/resurch-labs/resurch/internal/index"
)

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

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return m.embedFn(ctx, text)
}

// papersByID answers GetPapers from a fixed set, preserving input order.
func papersByID(papers ...domain.Paper) *mockPaperReader {
	byID := make(map[string]domain.Paper, len(papers))
	for _, p := range papers {
		byID[p.ID] = p
	}
	return &mockPaperReader{
		getPapersFn: func(_ context.Context, ids []string) ([]domain.Paper, error) {
			out := make([]domain.Paper, 0, len(ids))
			for _, id := range ids {
				if p, ok := byID[id]; ok {
					out = append(out, p)
				}
			}
			return out, nil
		},
	}
}

func fixedEmbedder(vec domain.Vector) *mockEmbedder {
	return &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{Embedding: vec, TotalTokens: 1}, nil
		},
	}
}
