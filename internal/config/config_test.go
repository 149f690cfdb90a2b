package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := NewFromViper(NewEmptyViper())

	rules := cfg.GetSpamRules()
	assert.Equal(DefaultBlockedWords, rules.BlockedWords)
	assert.Equal(DefaultShortenerDomains, rules.ShortenerDomains)
	assert.Equal(DefaultSuspiciousTLDs, rules.SuspiciousTLDs)
	assert.Equal(DefaultDisposableEmailDomains, rules.DisposableEmailDomains)
	assert.Equal(5*time.Minute, rules.RateWindow)
	assert.Equal(5, rules.RateLimit)

	store := cfg.GetStore()
	assert.Equal("memory", store.Type)
	assert.Equal(24*time.Hour, store.HistoryRetention)
	assert.Equal(time.Hour, store.CleanupFrequency)

	review := cfg.GetReview()
	assert.False(review.Enabled)
	assert.Equal(25, review.Threshold)

	server := cfg.GetServer()
	assert.Equal("http", server.FilterType)
	assert.Equal(10*time.Second, server.ReadTimeout)

	related := cfg.GetRelated()
	assert.Equal(RelatedConfig{TagWeight: 3, CategoryWeight: 2, TitleTermWeight: 1, Limit: 5}, related)
}

func TestNewFromFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`
store:
  type: sqlite
  sqlite_path: /tmp/guard.db
spam:
  blocked_words:
    - "essay writing service"
  rate_limit: 3
  rate_window: 10m
review:
  enabled: true
llm:
  provider: openai
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal("sqlite", cfg.GetStore().Type)
	assert.Equal("/tmp/guard.db", cfg.GetStore().SQLitePath)
	assert.Equal([]string{"essay writing service"}, cfg.GetSpamRules().BlockedWords)
	assert.Equal(3, cfg.GetSpamRules().RateLimit)
	assert.Equal(10*time.Minute, cfg.GetSpamRules().RateWindow)
	assert.True(cfg.GetReview().Enabled)
	assert.Equal("openai", cfg.GetLLM().Provider)

	// untouched keys keep their defaults
	assert.Equal(DefaultShortenerDomains, cfg.GetSpamRules().ShortenerDomains)
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SPAM_GUARD_STORE_TYPE", "redis")
	t.Setenv("SPAM_GUARD_LOGGING_LEVEL", "debug")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.GetStore().Type)
	assert.Equal(t, "debug", cfg.GetString("logging.level"))
}

func TestGetDuration(t *testing.T) {
	v := NewEmptyViper()
	v.Set("store.cleanup_frequency", "bogus")
	cfg := NewFromViper(v)

	_, err := cfg.GetDuration("store.cleanup_frequency")
	assert.Error(t, err)

	d, err := cfg.GetDuration("store.history_retention")
	assert.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)
}
