package feed

import (
	"context"

	"github.com/resurch-labs/resurch/internal/domain"
	"github.com/resurch-labs/resurch/internal/index"
)

// InteractionReader lists a user's interaction history.
type InteractionReader interface {
	ListPaperIDs(ctx context.Context, userID string, kind domain.InteractionKind) ([]string, error)
}

// VectorReader resolves stored embedding vectors by paper id.
type VectorReader interface {
	GetVectors(ctx context.Context, ids []string) (map[string]domain.Vector, error)
}

// Searcher answers nearest-neighbor queries over the paper corpus.
type Searcher interface {
	SearchKNN(ctx context.Context, vector domain.Vector, k int) ([]index.Hit, error)
}

// PaperReader hydrates paper metadata for result ids.
type PaperReader interface {
	GetPapers(ctx context.Context, ids []string) ([]domain.Paper, error)
}
