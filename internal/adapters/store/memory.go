package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryStore keeps the blocklist and comment history in process memory
type MemoryStore struct {
	words   map[string]struct{}
	history map[string][]time.Time
	mu      sync.RWMutex
	logger  *zap.Logger
	janitor *janitor
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger, opts Options) *MemoryStore {
	s := &MemoryStore{
		words:   make(map[string]struct{}),
		history: make(map[string][]time.Time),
		logger:  logger,
	}
	s.janitor = startJanitor(s, opts, logger)
	return s
}

// ListWords returns the stored words in sorted order
func (s *MemoryStore) ListWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := make([]string, 0, len(s.words))
	for w := range s.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words, nil
}

// AddWord stores a word; adding an existing word is a no-op
func (s *MemoryStore) AddWord(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.words[w] = struct{}{}
	return nil
}

// RemoveWord deletes a word; removing a missing word is a no-op
func (s *MemoryStore) RemoveWord(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.words, w)
	return nil
}

// CountRecentByAuthor counts the author's comments at or after since
func (s *MemoryStore) CountRecentByAuthor(ctx context.Context, authorID string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, at := range s.history[authorID] {
		if !at.Before(since) {
			n++
		}
	}
	return n, nil
}

// RecordComment remembers a comment by the author
func (s *MemoryStore) RecordComment(ctx context.Context, authorID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[authorID] = append(s.history[authorID], at)
	return nil
}

// Cleanup drops history older than before
func (s *MemoryStore) Cleanup(ctx context.Context, before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for author, times := range s.history {
		kept := times[:0]
		for _, at := range times {
			if at.Before(before) {
				removed++
				continue
			}
			kept = append(kept, at)
		}
		if len(kept) == 0 {
			delete(s.history, author)
		} else {
			s.history[author] = kept
		}
	}

	s.logger.Debug("Cleaned up comment history", zap.Int("removed", removed))
	return nil
}

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	s.janitor.stop()
}
