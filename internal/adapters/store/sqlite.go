package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath.
// ":memory:" gives a private database that lives as long as the store.
func NewSQLiteStore(dbPath string, logger *zap.Logger, opts Options) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite serializes writers anyway, and every :memory: connection is its own database
	db.SetMaxOpenConns(1)

	return newSQLStore(db, sqliteDialect, logger, opts)
}
