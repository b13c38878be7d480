// Package feed builds a personalized paper feed. The user's starred papers
// are averaged into a taste centroid, and the corpus is searched for the
// nearest papers the user has not starred yet.
package feed

import (
	"context"
	"fmt"

	"github.com/resurch-labs/resurch/internal/domain"
)

const (
	// DefaultLimit is the feed size when the caller does not ask for one.
	DefaultLimit = 10
	// overfetchFactor widens the KNN query so that filtering out already
	// starred papers still leaves a full feed.
	overfetchFactor = 5
)

// Service assembles personalized feeds.
type Service struct {
	interactions InteractionReader
	vectors      VectorReader
	searcher     Searcher
	papers       PaperReader
}

// New creates a feed service.
func New(interactions InteractionReader, vectors VectorReader, searcher Searcher, papers PaperReader) *Service {
	return &Service{
		interactions: interactions,
		vectors:      vectors,
		searcher:     searcher,
		papers:       papers,
	}
}

// Feed returns up to limit papers nearest to the centroid of the user's
// starred papers, excluding the starred papers themselves. A user with no
// stars (or whose stars have no stored vectors) gets an empty feed.
func (s *Service) Feed(ctx context.Context, userID string, limit int) ([]domain.ScoredPaper, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	starredIDs, err := s.interactions.ListPaperIDs(ctx, userID, domain.InteractionStar)
	if err != nil {
		return nil, fmt.Errorf("list starred papers: %w", err)
	}

	// The interaction log keeps duplicates; a paper starred twice must not
	// weigh twice in the centroid.
	starred := make(map[string]struct{}, len(starredIDs))
	unique := starredIDs[:0]
	for _, id := range starredIDs {
		if _, seen := starred[id]; seen {
			continue
		}
		starred[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []domain.ScoredPaper{}, nil
	}

	vecByID, err := s.vectors.GetVectors(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load starred vectors: %w", err)
	}

	vecs := make([]domain.Vector, 0, len(vecByID))
	for _, id := range unique {
		if v, ok := vecByID[id]; ok {
			vecs = append(vecs, v)
		}
	}
	if len(vecs) == 0 {
		return []domain.ScoredPaper{}, nil
	}

	centroid, err := domain.Centroid(vecs)
	if err != nil {
		return nil, fmt.Errorf("build taste centroid: %w", err)
	}

	hits, err := s.searcher.SearchKNN(ctx, centroid, limit*overfetchFactor)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	ids := make([]string, 0, limit)
	scores := make(map[string]float64, limit)
	for _, h := range hits {
		if _, isStarred := starred[h.ID]; isStarred {
			continue
		}
		ids = append(ids, h.ID)
		scores[h.ID] = h.Score
		if len(ids) == limit {
			break
		}
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
