package core

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyWord is returned when a blank word is added to or removed from the blocklist
var ErrEmptyWord = errors.New("blocklist word is empty")

// BlocklistStore persists spam words added on top of the built-in list
type BlocklistStore interface {
	// ListWords returns the stored words, lower-cased
	ListWords(ctx context.Context) ([]string, error)

	// AddWord stores a word
	AddWord(ctx context.Context, word string) error

	// RemoveWord deletes a stored word
	RemoveWord(ctx context.Context, word string) error
}

// CommentHistoryStore tracks when authors commented
type CommentHistoryStore interface {
	// CountRecentByAuthor counts an author's comments made at or after since
	CountRecentByAuthor(ctx context.Context, authorID string, since time.Time) (int, error)

	// RecordComment remembers that an author commented at the given time
	RecordComment(ctx context.Context, authorID string, at time.Time) error

	// Cleanup removes history older than before
	Cleanup(ctx context.Context, before time.Time) error
}

// CommentReviewer asks an LLM for a second opinion on a comment
type CommentReviewer interface {
	ReviewComment(ctx context.Context, comment *Comment) (*Review, error)
}
