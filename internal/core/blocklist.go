package core

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// BlocklistService manages the stored blocklist on top of the built-in words
type BlocklistService struct {
	store   BlocklistStore
	builtin []string
	logger  *zap.Logger
}

// NewBlocklistService creates a new blocklist service
func NewBlocklistService(store BlocklistStore, rules *RuleSet, logger *zap.Logger) *BlocklistService {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &BlocklistService{
		store:   store,
		builtin: rules.BlockedWords,
		logger:  logger,
	}
}

// Stored returns the stored words in sorted order
func (s *BlocklistService) Stored(ctx context.Context) ([]string, error) {
	words, err := s.store.ListWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked words: %w", err)
	}
	sort.Strings(words)
	return words, nil
}

// Effective returns the merged built-in and stored words. A store failure
// degrades to the built-in list, exactly as during a spam check.
func (s *BlocklistService) Effective(ctx context.Context) []string {
	words, err := s.store.ListWords(ctx)
	if err != nil {
		s.logger.Warn("Failed to read stored blocklist", zap.Error(err))
		words = nil
	}
	return MergeBlocklist(s.builtin, words)
}

// Add stores a new blocked word
func (s *BlocklistService) Add(ctx context.Context, word string) (string, error) {
	w := NormalizeWord(word)
	if w == "" {
		return "", ErrEmptyWord
	}
	if err := s.store.AddWord(ctx, w); err != nil {
		return "", fmt.Errorf("failed to add blocked word: %w", err)
	}
	s.logger.Info("Added blocked word", zap.String("word", w))
	return w, nil
}

// Remove deletes a stored word. Built-in words cannot be removed this way.
func (s *BlocklistService) Remove(ctx context.Context, word string) (string, error) {
	w := NormalizeWord(word)
	if w == "" {
		return "", ErrEmptyWord
	}
	if err := s.store.RemoveWord(ctx, w); err != nil {
		return "", fmt.Errorf("failed to remove blocked word: %w", err)
	}
	s.logger.Info("Removed blocked word", zap.String("word", w))
	return w, nil
}
