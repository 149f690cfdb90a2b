package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/comment-spam-guard/internal/adapters/store"
	"github.com/mikey/comment-spam-guard/internal/config"
	"github.com/mikey/comment-spam-guard/internal/ports"
	"go.uber.org/zap"
)

// StoreFactory creates the blocklist and history store based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates a store based on the configuration
func (f *StoreFactory) CreateStore() (ports.Store, error) {
	storeCfg := f.cfg.GetStore()
	opts := store.Options{
		Retention:        storeCfg.HistoryRetention,
		CleanupFrequency: storeCfg.CleanupFrequency,
	}

	if rw := f.cfg.GetSpamRules().RateWindow; opts.Retention > 0 && opts.Retention < rw {
		return nil, fmt.Errorf("store.history_retention (%s) must not be shorter than spam.rate_window (%s)", opts.Retention, rw)
	}

	f.logger.Info("Creating store", zap.String("type", storeCfg.Type))

	switch storeCfg.Type {
	case "memory":
		return store.NewMemoryStore(f.logger, opts), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger, opts)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, f.logger, opts)
	case "postgres":
		return store.NewPostgresStore(context.Background(), storeCfg.PostgresURL, f.logger, opts)
	case "redis":
		return store.NewRedisStore(context.Background(), storeCfg.RedisURL, f.logger, opts)
	default:
		return nil, fmt.Errorf("%w: %s", store.ErrUnsupportedStore, storeCfg.Type)
	}
}
