package chi

import (
	"context"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/resurch-labs/resurch/internal/domain"
	"github.com/resurch-labs/resurch/internal/index"
	feeduc "github.com/resurch-labs/resurch/internal/usecase/feed"
	healthuc "github.com/resurch-labs/resurch/internal/usecase/health"
	searchuc "github.com/resurch-labs/resurch/internal/usecase/search"
)

type stubSearcher struct {
	hits []index.Hit
	err  error
}

func (s *stubSearcher) SearchKNN(_ context.Context, _ domain.Vector, _ int) ([]index.Hit, error) {
	return s.hits, s.err
}

type stubPapers struct {
	byID map[string]domain.Paper
}

func (s *stubPapers) GetPapers(_ context.Context, ids []string) ([]domain.Paper, error) {
	out := make([]domain.Paper, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: domain.Vector{1, 0}}, nil
}

type stubVectors struct {
	byID map[string]domain.Vector
}

func (s *stubVectors) GetVectors(_ context.Context, ids []string) (map[string]domain.Vector, error) {
	out := make(map[string]domain.Vector, len(ids))
	for _, id := range ids {
		if v, ok := s.byID[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

type stubInteractions struct {
	stars []string
	added []domain.Interaction
	err   error
}

func (s *stubInteractions) ListPaperIDs(
	_ context.Context, _ string, _ domain.InteractionKind,
) ([]string, error) {
	return s.stars, s.err
}

func (s *stubInteractions) Add(_ context.Context, in domain.Interaction) error {
	if s.err != nil {
		return s.err
	}
	s.added = append(s.added, in)
	return nil
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

type serverEnv struct {
	router       chirouter.Router
	searcher     *stubSearcher
	papers       *stubPapers
	embedder     *stubEmbedder
	vectors      *stubVectors
	interactions *stubInteractions
	pinger       *stubPinger
}

func newTestServer(t *testing.T) *serverEnv {
	t.Helper()

	env := &serverEnv{
		searcher:     &stubSearcher{},
		papers:       &stubPapers{byID: map[string]domain.Paper{}},
		embedder:     &stubEmbedder{},
		vectors:      &stubVectors{byID: map[string]domain.Vector{}},
		interactions: &stubInteractions{},
		pinger:       &stubPinger{},
	}

	srv := NewServer(
		searchuc.New(env.searcher, env.papers, env.embedder, 0),
		feeduc.New(env.interactions, env.vectors, env.searcher, env.papers),
		env.interactions,
		healthuc.New(env.pinger, nil, nil),
		zap.NewNop(),
	)

	r := chirouter.NewRouter()
	srv.Routes(r)
	env.router = r
	return env
}

func (e *serverEnv) addPaper(p domain.Paper, vec domain.Vector) {
	e.papers.byID[p.ID] = p
	e.vectors.byID[p.ID] = vec
}
