package interactions

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/resurch-labs/resurch/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_interactions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	paper_id         TEXT NOT NULL,
	interaction_type TEXT NOT NULL,
	created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_user_kind
	ON user_interactions (user_id, interaction_type, created_at);
`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed interaction store at the given path.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "data/resurch.db"
	}

	if dir := filepath.Dir(dsn); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migration: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Add appends one interaction to the log.
func (s *SQLiteStore) Add(ctx context.Context, in domain.Interaction) error {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_interactions (id, user_id, paper_id, interaction_type, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, in.UserID, in.PaperID, string(in.Kind), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// ListPaperIDs returns paper ids for a user and kind, oldest first.
func (s *SQLiteStore) ListPaperIDs(
	ctx context.Context, userID string, kind domain.InteractionKind,
) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id FROM user_interactions
		WHERE user_id = ? AND interaction_type = ?
		ORDER BY created_at, id`,
		userID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return ids, nil
}

// Ping checks database availability.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close shuts down the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
