package ingest

import (
	"context"

	"github.com/resurch-labs/resurch/internal/domain"
)

// Fetcher pulls paper metadata from an external source.
type Fetcher interface {
	Fetch(ctx context.Context, query string, maxResults int) ([]domain.Paper, error)
}

// Corpus is the storage contract for the ingest pipeline.
type Corpus interface {
	EnsureIndex(ctx context.Context) error
	UpsertMetadata(ctx context.Context, paper domain.Paper) error
	MissingVectorIDs(ctx context.Context) ([]string, error)
	GetPapers(ctx context.Context, ids []string) ([]domain.Paper, error)
	UpsertBatch(ctx context.Context, papers []domain.Paper, vectors []domain.Vector) error
}

// BatchEmbedder vectorizes several texts in one call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
