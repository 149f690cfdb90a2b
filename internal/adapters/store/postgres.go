package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS blocked_words (
		word TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS comment_history (
		id BIGSERIAL PRIMARY KEY,
		author_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comment_history_author ON comment_history (author_id, created_at);
`

// PostgresStore is a PostgreSQL store backed by a pgx connection pool
type PostgresStore struct {
	pool    *pgxpool.Pool
	logger  *zap.Logger
	janitor *janitor
}

// NewPostgresStore connects to PostgreSQL and creates the tables if needed
func NewPostgresStore(ctx context.Context, databaseURL string, logger *zap.Logger, opts Options) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create PostgreSQL schema: %w", err)
	}

	s := &PostgresStore{
		pool:   pool,
		logger: logger,
	}
	s.janitor = startJanitor(s, opts, logger)
	return s, nil
}

// ListWords returns the stored words in sorted order
func (s *PostgresStore) ListWords(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT word FROM blocked_words ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked words: %w", err)
	}

	words, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read blocked words: %w", err)
	}
	return words, nil
}

// AddWord stores a word; adding an existing word is a no-op
func (s *PostgresStore) AddWord(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO blocked_words (word)
		VALUES ($1)
		ON CONFLICT (word) DO NOTHING
	`, w)
	if err != nil {
		return fmt.Errorf("failed to insert blocked word: %w", err)
	}
	return nil
}

// RemoveWord deletes a word; removing a missing word is a no-op
func (s *PostgresStore) RemoveWord(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM blocked_words WHERE word = $1`, w); err != nil {
		return fmt.Errorf("failed to delete blocked word: %w", err)
	}
	return nil
}

// CountRecentByAuthor counts the author's comments at or after since
func (s *PostgresStore) CountRecentByAuthor(ctx context.Context, authorID string, since time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM comment_history
		WHERE author_id = $1 AND created_at >= $2
	`, authorID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count comment history: %w", err)
	}
	return n, nil
}

// RecordComment remembers a comment by the author
func (s *PostgresStore) RecordComment(ctx context.Context, authorID string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO comment_history (author_id, created_at)
		VALUES ($1, $2)
	`, authorID, at)
	if err != nil {
		return fmt.Errorf("failed to record comment: %w", err)
	}
	return nil
}

// Cleanup drops history older than before
func (s *PostgresStore) Cleanup(ctx context.Context, before time.Time) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comment_history WHERE created_at < $1`, before)
	if err != nil {
		return fmt.Errorf("failed to clean up comment history: %w", err)
	}
	s.logger.Debug("Cleaned up comment history", zap.Int64("removed", tag.RowsAffected()))
	return nil
}

// Stop stops the background cleanup task and closes the pool
func (s *PostgresStore) Stop() {
	s.janitor.stop()
	s.pool.Close()
}
