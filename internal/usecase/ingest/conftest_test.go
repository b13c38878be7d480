package ingest

import (
	"context"

	"github.com/resurch-labs/resurch/internal/domain"
)

type mockFetcher struct {
	fetchFn func(ctx context.Context, query string, maxResults int) ([]domain.Paper, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	return m.fetchFn(ctx, query, maxResults)
}

type mockCorpus struct {
	ensureIndexFn      func(ctx context.Context) error
	upsertMetadataFn   func(ctx context.Context, paper domain.Paper) error
	missingVectorIDsFn func(ctx context.Context) ([]string, error)
	getPapersFn        func(ctx context.Context, ids []string) ([]domain.Paper, error)
	upsertBatchFn      func(ctx context.Context, papers []domain.Paper, vectors []domain.Vector) error
}

func (m *mockCorpus) EnsureIndex(ctx context.Context) error {
	if m.ensureIndexFn != nil {
		return m.ensureIndexFn(ctx)
	}
	return nil
}

func (m *mockCorpus) UpsertMetadata(ctx context.Context, paper domain.Paper) error {
	return m.upsertMetadataFn(ctx, paper)
}

func (m *mockCorpus) MissingVectorIDs(ctx context.Context) ([]string, error) {
	return m.missingVectorIDsFn(ctx)
}

func (m *mockCorpus) GetPapers(ctx context.Context, ids []string) ([]domain.Paper, error) {
	return m.getPapersFn(ctx, ids)
}

func (m *mockCorpus) UpsertBatch(ctx context.Context, papers []domain.Paper, vectors []domain.Vector) error {
	return m.upsertBatchFn(ctx, papers, vectors)
}

type mockBatchEmbedder struct {
	batchFn func(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return m.batchFn(ctx, texts)
}

// constEmbedder returns a fixed vector per text.
func constEmbedder(vec domain.Vector) *mockBatchEmbedder {
	return &mockBatchEmbedder{
		batchFn: func(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
			out := make([]domain.Vector, len(texts))
			for i := range texts {
				out[i] = vec
			}
			return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
		},
	}
}
