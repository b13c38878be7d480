// Package interactions persists the append-only user interaction log.
// The original corpus lives in Redis; interactions are relational and sit in
// SQL, with the driver selected by DSN.
package interactions

import (
	"context"
	"fmt"
	"strings"

	"github.com/resurch-labs/resurch/internal/domain"
)

// Store is the append-only interaction log. Duplicate interactions are
// tolerated: the log records events, it does not deduplicate them.
type Store interface {
	Add(ctx context.Context, interaction domain.Interaction) error
	// ListPaperIDs returns the paper ids a user interacted with, oldest first.
	// Duplicates appear as often as they were recorded.
	ListPaperIDs(ctx context.Context, userID string, kind domain.InteractionKind) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// New creates an interaction store based on the DSN:
//   - empty: SQLite at data/resurch.db
//   - postgres:// or postgresql://: PostgreSQL
//   - anything else: SQLite at the given path
func New(dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		s, err := NewPostgres(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	}
	return NewSQLite(dsn)
}
