package interactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/resurch-labs/resurch/internal/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS user_interactions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	paper_id         TEXT NOT NULL,
	interaction_type TEXT NOT NULL,
	created_at       BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_user_kind
	ON user_interactions (user_id, interaction_type, created_at);
`

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed interaction store.
func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migration: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Add appends one interaction to the log.
func (s *PostgresStore) Add(ctx context.Context, in domain.Interaction) error {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_interactions (id, user_id, paper_id, interaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, in.UserID, in.PaperID, string(in.Kind), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// ListPaperIDs returns paper ids for a user and kind, oldest first.
func (s *PostgresStore) ListPaperIDs(
	ctx context.Context, userID string, kind domain.InteractionKind,
) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id FROM user_interactions
		WHERE user_id = $1 AND interaction_type = $2
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
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close shuts down the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
