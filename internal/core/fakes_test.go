package core

import (
	"context"
	"sync"
	"time"
)

type fakeBlocklist struct {
	mu    sync.Mutex
	words []string
	err   error
	calls int
}

func (f *fakeBlocklist) ListWords(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.words...), nil
}

func (f *fakeBlocklist) AddWord(ctx context.Context, word string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.words = append(f.words, word)
	return nil
}

func (f *fakeBlocklist) RemoveWord(ctx context.Context, word string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	kept := f.words[:0]
	for _, w := range f.words {
		if w != word {
			kept = append(kept, w)
		}
	}
	f.words = kept
	return nil
}

type fakeHistory struct {
	mu        sync.Mutex
	times     map[string][]time.Time
	countErr  error
	recordErr error
	lastSince time.Time
	counts    int
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{times: make(map[string][]time.Time)}
}

func (f *fakeHistory) CountRecentByAuthor(ctx context.Context, authorID string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts++
	f.lastSince = since
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, t := range f.times[authorID] {
		if !t.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeHistory) RecordComment(ctx context.Context, authorID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.times[authorID] = append(f.times[authorID], at)
	return nil
}

func (f *fakeHistory) Cleanup(ctx context.Context, before time.Time) error {
	return nil
}

func (f *fakeHistory) recorded(authorID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.times[authorID])
}

type fakeReviewer struct {
	review *Review
	err    error
	calls  int
}

func (f *fakeReviewer) ReviewComment(ctx context.Context, comment *Comment) (*Review, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.review, nil
}
