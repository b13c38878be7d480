package search

import (
	"context"

	"github.com/resurch-labs/resurch/internal/domain"
	"github.com/resurch-labs/resurch/internal/index"
)

// Searcher answers nearest-neighbor queries over the paper corpus.
type Searcher interface {
	SearchKNN(ctx context.Context, vector domain.Vector, k int) ([]index.Hit, error)
}

// PaperReader hydrates paper metadata for result ids.
type PaperReader interface {
	GetPapers(ctx context.Context, ids []string) ([]domain.Paper, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
