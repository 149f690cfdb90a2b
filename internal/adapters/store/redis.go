package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps blocked words in a set and each author's comment times in
// a sorted set scored by Unix milliseconds
type RedisStore struct {
	client    *redis.Client
	logger    *zap.Logger
	retention time.Duration
	janitor   *janitor
}

// NewRedisStore connects to the Redis server at redisURL
func NewRedisStore(ctx context.Context, redisURL string, logger *zap.Logger, opts Options) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s := &RedisStore{
		client:    client,
		logger:    logger,
		retention: opts.retention(),
	}
	s.janitor = startJanitor(s, opts, logger)
	return s, nil
}

// ListWords returns the stored words in sorted order
func (s *RedisStore) ListWords(ctx context.Context) ([]string, error) {
	words, err := s.client.SMembers(ctx, redisWordsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read blocked words: %w", err)
	}
	sort.Strings(words)
	return words, nil
}

// AddWord stores a word; adding an existing word is a no-op
func (s *RedisStore) AddWord(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	if err := s.client.SAdd(ctx, redisWordsKey, w).Err(); err != nil {
		return fmt.Errorf("failed to add blocked word: %w", err)
	}
	return nil
}

// RemoveWord deletes a word; removing a missing word is a no-op
func (s *RedisStore) RemoveWord(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	if err := s.client.SRem(ctx, redisWordsKey, w).Err(); err != nil {
		return fmt.Errorf("failed to remove blocked word: %w", err)
	}
	return nil
}

// CountRecentByAuthor counts the author's comments at or after since
func (s *RedisStore) CountRecentByAuthor(ctx context.Context, authorID string, since time.Time) (int, error) {
	from := strconv.FormatInt(since.UnixMilli(), 10)
	n, err := s.client.ZCount(ctx, historyKey(authorID), from, "+inf").Result()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to count comment history: %w", err)
	}
	return int(n), nil
}

// RecordComment remembers a comment by the author. The author's key expires
// once the newest entry is older than the retention period.
func (s *RedisStore) RecordComment(ctx context.Context, authorID string, at time.Time) error {
	key := historyKey(authorID)

	// add and refresh the expiry in a single round-trip
	multi := s.client.TxPipeline()
	multi.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixMilli()), Member: uuid.NewString()})
	multi.Expire(ctx, key, s.retention)

	if _, err := multi.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record comment: %w", err)
	}
	return nil
}

// Cleanup drops history older than before from every author key
func (s *RedisStore) Cleanup(ctx context.Context, before time.Time) error {
	upTo := "(" + strconv.FormatInt(before.UnixMilli(), 10)
	var removed int64

	iter := s.client.Scan(ctx, 0, redisHistoryPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := s.client.ZRemRangeByScore(ctx, iter.Val(), "-inf", upTo).Result()
		if err != nil {
			return fmt.Errorf("failed to clean up %s: %w", iter.Val(), err)
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan comment history: %w", err)
	}

	s.logger.Debug("Cleaned up comment history", zap.Int64("removed", removed))
	return nil
}

// Stop stops the background cleanup task and closes the client
func (s *RedisStore) Stop() {
	s.janitor.stop()
	if err := s.client.Close(); err != nil {
		s.logger.Error("Failed to close redis client", zap.Error(err))
	}
}

func historyKey(authorID string) string {
	return redisHistoryPrefix + authorID
}
