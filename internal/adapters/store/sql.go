package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// dialect holds the statements that differ between SQL backends.
// Timestamps are stored as Unix nanoseconds so both drivers agree on them.
type dialect struct {
	name       string
	schema     []string
	insertWord string
}

var sqliteDialect = dialect{
	name: "SQLite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS blocked_words (
			word TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comment_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comment_history_author ON comment_history(author_id, created_at)`,
	},
	insertWord: `INSERT OR IGNORE INTO blocked_words (word, created_at) VALUES (?, ?)`,
}

var mysqlDialect = dialect{
	name: "MySQL",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS blocked_words (
			word VARCHAR(255) PRIMARY KEY,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comment_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			author_id VARCHAR(255) NOT NULL,
			created_at BIGINT NOT NULL,
			INDEX idx_comment_history_author (author_id, created_at)
		)`,
	},
	insertWord: `INSERT IGNORE INTO blocked_words (word, created_at) VALUES (?, ?)`,
}

// SQLStore is a database/sql backed store
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
	janitor *janitor
}

func newSQLStore(db *sql.DB, d dialect, logger *zap.Logger, opts Options) (*SQLStore, error) {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", d.name, err)
		}
	}

	s := &SQLStore{
		db:      db,
		dialect: d,
		logger:  logger,
	}
	s.janitor = startJanitor(s, opts, logger)
	return s, nil
}

// ListWords returns the stored words in sorted order
func (s *SQLStore) ListWords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word FROM blocked_words ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked words: %w", err)
	}
	defer rows.Close()

	words := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("failed to scan blocked word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blocked words: %w", err)
	}
	return words, nil
}

// AddWord stores a word; adding an existing word is a no-op
func (s *SQLStore) AddWord(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.insertWord, w, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to insert blocked word: %w", err)
	}
	return nil
}

// RemoveWord deletes a word; removing a missing word is a no-op
func (s *SQLStore) RemoveWord(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blocked_words WHERE word = ?`, w); err != nil {
		return fmt.Errorf("failed to delete blocked word: %w", err)
	}
	return nil
}

// CountRecentByAuthor counts the author's comments at or after since
func (s *SQLStore) CountRecentByAuthor(ctx context.Context, authorID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM comment_history
		WHERE author_id = ? AND created_at >= ?
	`, authorID, since.UnixNano()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count comment history: %w", err)
	}
	return n, nil
}

// RecordComment remembers a comment by the author
func (s *SQLStore) RecordComment(ctx context.Context, authorID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comment_history (author_id, created_at)
		VALUES (?, ?)
	`, authorID, at.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record comment: %w", err)
	}
	return nil
}

// Cleanup drops history older than before
func (s *SQLStore) Cleanup(ctx context.Context, before time.Time) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comment_history WHERE created_at < ?`, before.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to clean up comment history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up comment history", zap.Int64("removed", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (s *SQLStore) Stop() {
	s.janitor.stop()
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database", zap.String("dialect", s.dialect.name), zap.Error(err))
	}
}
