// Package ingest feeds the corpus: the fetch stage pulls paper metadata from
// an external source, the embed stage vectorizes papers that have no stored
// embedding yet.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/resurch-labs/resurch/internal/domain"
	"github.com/resurch-labs/resurch/internal/metrics"
)

// DefaultBatchSize is how many papers go into one embedding API call.
const DefaultBatchSize = 32

// Service runs the two ingest stages.
type Service struct {
	fetcher   Fetcher
	corpus    Corpus
	embed     BatchEmbedder
	batchSize int
	logger    *zap.Logger
}

// New creates an ingest service. batchSize <= 0 selects DefaultBatchSize.
// fetcher may be nil when only the embed stage is used.
func New(fetcher Fetcher, corpus Corpus, embed BatchEmbedder, batchSize int, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{
		fetcher:   fetcher,
		corpus:    corpus,
		embed:     embed,
		batchSize: batchSize,
		logger:    logger,
	}
}

// FetchPapers pulls paper metadata for a query and stores it without vectors.
// Returns the number of papers written.
func (s *Service) FetchPapers(ctx context.Context, query string, maxResults int) (int, error) {
	papers, err := s.fetcher.Fetch(ctx, query, maxResults)
	if err != nil {
		return 0, fmt.Errorf("fetch papers: %w", err)
	}

	stored := 0
	for _, p := range papers {
		if err := s.corpus.UpsertMetadata(ctx, p); err != nil {
			return stored, fmt.Errorf("store paper %s: %w", p.ID, err)
		}
		stored++
	}

	metrics.PapersIngestedTotal.WithLabelValues("fetched").Add(float64(stored))
	s.logger.Info("Fetched papers",
		zap.String("query", query),
		zap.Int("stored", stored),
	)
	return stored, nil
}

// EmbedMissing vectorizes every paper that has metadata but no vector yet,
// in batches, and makes sure the vector index exists. Returns the number of
// papers embedded.
func (s *Service) EmbedMissing(ctx context.Context) (int, error) {
	if err := s.corpus.EnsureIndex(ctx); err != nil {
		return 0, fmt.Errorf("ensure index: %w", err)
	}

	ids, err := s.corpus.MissingVectorIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("find papers without vectors: %w", err)
	}
	if len(ids) == 0 {
		s.logger.Info("No papers to embed")
		return 0, nil
	}

	embedded := 0
	for start := 0; start < len(ids); start += s.batchSize {
		end := start + s.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		n, err := s.embedBatch(ctx, ids[start:end])
		embedded += n
		if err != nil {
			return embedded, err
		}
	}

	metrics.PapersIngestedTotal.WithLabelValues("embedded").Add(float64(embedded))
	s.logger.Info("Embedded papers", zap.Int("count", embedded))
	return embedded, nil
}

func (s *Service) embedBatch(ctx context.Context, ids []string) (int, error) {
	papers, err := s.corpus.GetPapers(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("load papers: %w", err)
	}
	if len(papers) == 0 {
		return 0, nil
	}

	texts := make([]string, len(papers))
	for i, p := range papers {
		texts[i] = p.EmbeddingText()
	}

	res, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(res.Embeddings) != len(papers) {
		return 0, fmt.Errorf("embed batch: got %d vectors for %d papers: %w",
			len(res.Embeddings), len(papers), domain.ErrEmbeddingProviderError)
	}

	if err := s.corpus.UpsertBatch(ctx, papers, res.Embeddings); err != nil {
		return 0, fmt.Errorf("store vectors: %w", err)
	}

	s.logger.Debug("Embedded batch",
		zap.Int("papers", len(papers)),
		zap.Int("tokens", res.TotalTokens),
	)
	return len(papers), nil
}
