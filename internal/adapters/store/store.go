package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikey/comment-spam-guard/internal/core"
	"go.uber.org/zap"
)

// ErrUnsupportedStore is returned for an unknown store.type
var ErrUnsupportedStore = errors.New("unsupported store type")

const (
	defaultRetention   = 24 * time.Hour
	cleanupTimeout     = 30 * time.Second
	redisWordsKey      = "blocklist/words"
	redisHistoryPrefix = "history/"
)

// Options are the settings shared by every backend
type Options struct {
	// Retention is how long comment history is kept. It must exceed the rate window.
	Retention time.Duration
	// CleanupFrequency is how often old history is pruned; zero disables pruning
	CleanupFrequency time.Duration
}

func (o Options) retention() time.Duration {
	if o.Retention <= 0 {
		return defaultRetention
	}
	return o.Retention
}

// janitor prunes comment history older than the retention period
type janitor struct {
	history   core.CommentHistoryStore
	logger    *zap.Logger
	retention time.Duration
	freq      time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

func startJanitor(history core.CommentHistoryStore, opts Options, logger *zap.Logger) *janitor {
	j := &janitor{
		history:   history,
		logger:    logger,
		retention: opts.retention(),
		freq:      opts.CleanupFrequency,
		stopCh:    make(chan struct{}),
	}
	if j.freq > 0 {
		go j.run()
	}
	return j
}

func (j *janitor) run() {
	ticker := time.NewTicker(j.freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
			if err := j.history.Cleanup(ctx, time.Now().Add(-j.retention)); err != nil {
				j.logger.Error("Failed to clean up comment history", zap.Error(err))
			}
			cancel()
		case <-j.stopCh:
			return
		}
	}
}

func (j *janitor) stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
}

// normalize trims and lower-cases a word, rejecting blanks
func normalize(word string) (string, error) {
	w := core.NormalizeWord(word)
	if w == "" {
		return "", core.ErrEmptyWord
	}
	return w, nil
}
