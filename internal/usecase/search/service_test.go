package search

import (
	"context"
	"errors"
	"testing"

	"github.com/resurch-labs/resurch/internal/domain"
	"github.com/resurch-labs/resurch/internal/index"
)

func TestSearch_RanksAndHydrates(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, _ domain.Vector, k int) ([]index.Hit, error) {
			if k != 2 {
				t.Errorf("expected k=2, got %d", k)
			}
			return []index.Hit{
				{ID: "p1", Score: 0.9},
				{ID: "p2", Score: 0.5},
			}, nil
		},
	}
	papers := papersByID(
		domain.Paper{ID: "p1", Title: "Attention Is All You Need"},
		domain.Paper{ID: "p2", Title: "BERT"},
	)

	svc := New(searcher, papers, fixedEmbedder(domain.Vector{1, 0}), 0)

	results, err := svc.Search(context.Background(), "transformers", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "p1" || results[0].Similarity != 0.9 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].ID != "p2" || results[1].Similarity != 0.5 {
		t.Errorf("unexpected second result: %+v", results[1])
	}
	if results[0].Title != "Attention Is All You Need" {
		t.Errorf("metadata not hydrated: %+v", results[0])
	}
}

func TestSearch_FiltersBelowThreshold(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, _ domain.Vector, _ int) ([]index.Hit, error) {
			return []index.Hit{
				{ID: "p1", Score: 0.8},
				{ID: "p2", Score: 0.09}, // below default threshold 0.1
			}, nil
		},
	}
	papers := papersByID(domain.Paper{ID: "p1"}, domain.Paper{ID: "p2"})

	svc := New(searcher, papers, fixedEmbedder(domain.Vector{1}), 0)

	results, err := svc.Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "p1" {
		t.Errorf("expected only p1 above threshold, got %v", results)
	}
}

func TestSearch_NoMatchesIsEmptyNotError(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, _ domain.Vector, _ int) ([]index.Hit, error) {
			return []index.Hit{{ID: "p1", Score: 0.05}}, nil
		},
	}
	papers := papersByID(domain.Paper{ID: "p1"})

	svc := New(searcher, papers, fixedEmbedder(domain.Vector{1}), 0)

	results, err := svc.Search(context.Background(), "unrelated", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result, got %v", results)
	}
}

func TestSearch_CustomThreshold(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, _ domain.Vector, _ int) ([]index.Hit, error) {
			return []index.Hit{
				{ID: "p1", Score: 0.6},
				{ID: "p2", Score: 0.4},
			}, nil
		},
	}
	papers := papersByID(domain.Paper{ID: "p1"}, domain.Paper{ID: "p2"})

	svc := New(searcher, papers, fixedEmbedder(domain.Vector{1}), 0.5)

	results, err := svc.Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "p1" {
		t.Errorf("expected only p1 above 0.5, got %v", results)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := New(nil, nil, nil, 0)

	_, err := svc.Search(context.Background(), "   ", 10)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSearch_EmbedderError(t *testing.T) {
	embed := &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{}, domain.ErrEmbeddingProviderError
		},
	}
	svc := New(nil, nil, embed, 0)

	_, err := svc.Search(context.Background(), "q", 10)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestSearch_IndexError(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, _ domain.Vector, _ int) ([]index.Hit, error) {
			return nil, domain.ErrIndexQueryFailed
		},
	}
	svc := New(searcher, nil, fixedEmbedder(domain.Vector{1}), 0)

	_, err := svc.Search(context.Background(), "q", 10)
	if !errors.Is(err, domain.ErrIndexQueryFailed) {
		t.Fatalf("expected ErrIndexQueryFailed, got %v", err)
	}
}

// The service runs unchanged over the in-process brute-force index, the same
// way it runs over the remote store.
func TestSearch_OverMemoryIndex(t *testing.T) {
	idx := index.NewMemory(2)
	if err := idx.AddBatch(
		[]string{"p1", "p2", "p3"},
		[]domain.Vector{{1, 0}, {0.8, 0.2}, {0, 1}},
	); err != nil {
		t.Fatalf("populate index: %v", err)
	}
	papers := papersByID(
		domain.Paper{ID: "p1", Title: "a"},
		domain.Paper{ID: "p2", Title: "b"},
		domain.Paper{ID: "p3", Title: "c"},
	)

	svc := New(idx, papers, fixedEmbedder(domain.Vector{1, 0}), 0.5)

	results, err := svc.Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected p3 filtered by threshold, got %v", results)
	}
	if results[0].ID != "p1" || results[1].ID != "p2" {
		t.Errorf("unexpected ranking: %v", results)
	}
}

func TestSearch_DefaultLimit(t *testing.T) {
	var gotK int
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, _ domain.Vector, k int) ([]index.Hit, error) {
			gotK = k
			return nil, nil
		},
	}
	svc := New(searcher, papersByID(), fixedEmbedder(domain.Vector{1}), 0)

	if _, err := svc.Search(context.Background(), "q", 0); err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotK != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, gotK)
	}
}
