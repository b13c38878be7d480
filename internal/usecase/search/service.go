// Package search implements semantic search over the paper corpus: the query
// is embedded and matched against stored paper vectors by cosine similarity.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/resurch-labs/resurch/internal/domain"
)

const (
	// DefaultThreshold is the minimum similarity for a paper to be returned.
	DefaultThreshold = 0.1
	// DefaultLimit is used when the caller does not ask for a specific count.
	DefaultLimit = 10
)

// Service handles semantic paper search.
type Service struct {
	searcher  Searcher
	papers    PaperReader
	embed     Embedder
	threshold float64
}

// New creates a search service. threshold <= 0 selects DefaultThreshold.
func New(searcher Searcher, papers PaperReader, embed Embedder, threshold float64) *Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{searcher: searcher, papers: papers, embed: embed, threshold: threshold}
}

// Search embeds the query and returns up to limit papers with similarity at
// or above the threshold, most similar first. A query matching nothing above
// the threshold yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.ScoredPaper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.searcher.SearchKNN(ctx, embResult.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	ids := make([]string, 0, len(hits))
	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		if h.Score < s.threshold {
			continue
		}
		ids = append(ids, h.ID)
		scores[h.ID] = h.Score
	}
	if len(ids) == 0 {
		return []domain.ScoredPaper{}, nil
	}

	papers, err := s.papers.GetPapers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate papers: %w", err)
	}

	results := make([]domain.ScoredPaper, 0, len(papers))
	for _, p := range papers {
		results = append(results, domain.ScoredPaper{
			Paper:      p,
			Similarity: scores[p.ID],
		})
	}
	return results, nil
}
