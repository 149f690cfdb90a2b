package core

import (
	"testing"
	"time"

	"github.com/mikey/comment-spam-guard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeBlocklist(t *testing.T) {
	assert := assert.New(t)

	merged := MergeBlocklist(
		[]string{"viagra", "Casino"},
		[]string{"  zebra deals ", "CASINO", "", "apple sale", "zebra deals"},
	)
	assert.Equal([]string{"viagra", "casino", "apple sale", "zebra deals"}, merged)

	assert.Equal([]string{"viagra"}, MergeBlocklist([]string{"viagra"}, nil))
	assert.Equal([]string{"spam"}, MergeBlocklist(nil, []string{"Spam"}))
	assert.Empty(MergeBlocklist(nil, nil))
}

func TestMergeBlocklistKeepsBuiltins(t *testing.T) {
	merged := MergeBlocklist(config.DefaultBlockedWords, []string{"essay writing"})
	for _, w := range config.DefaultBlockedWords {
		assert.Contains(t, merged, w)
	}
	assert.Contains(t, merged, "essay writing")
	assert.Len(t, merged, len(config.DefaultBlockedWords)+1)
}

func TestNewRuleSetDefaults(t *testing.T) {
	assert := assert.New(t)

	rs, err := NewRuleSet([]string{" Viagra ", ""}, nil, nil, nil, 0, 0)
	require.NoError(t, err)

	assert.Equal([]string{"viagra"}, rs.BlockedWords)
	assert.Equal(defaultRateLimit, rs.RateLimit)
	assert.Equal(defaultRateWindow, rs.RateWindow)
	assert.False(rs.hasSuspiciousURL("https://bit.ly/abc"))
}

func TestNewRuleSetFromConfig(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("spam.blocked_words", []string{"essay writing"})
	v.Set("spam.shortener_domains", []string{"sho.rt"})
	v.Set("spam.suspicious_tlds", []string{".zip"})
	v.Set("spam.disposable_email_domains", []string{"burner"})
	v.Set("spam.rate_limit", 3)
	v.Set("spam.rate_window", "10m")
	cfg := config.NewFromViper(v)

	rs, err := NewRuleSetFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"essay writing"}, rs.BlockedWords)
	assert.Equal(t, 3, rs.RateLimit)
	assert.Equal(t, 10*time.Minute, rs.RateWindow)
	assert.True(t, rs.hasSuspiciousURL("visit sho.rt/x"))
	assert.True(t, rs.hasSuspiciousURL("get it at files.zip/download"))
	assert.False(t, rs.hasSuspiciousURL("https://bit.ly/abc"))
	assert.True(t, rs.isDisposableEmail("a@burner.io"))
}

func TestSuspiciousURL(t *testing.T) {
	rs := DefaultRuleSet()

	for _, s := range []string{
		"go to bit.ly/abc",
		"https://tinyurl.com/xyz",
		"see t.co/123",
		"http://free-prizes.tk/claim",
		"promo.xyz/deal",
	} {
		assert.True(t, rs.hasSuspiciousURL(s), s)
	}
	for _, s := range []string{
		"microsoft.com",
		"my site is example.tk",
		"https://example.com/top",
		"reddit.com/r/golang",
	} {
		assert.False(t, rs.hasSuspiciousURL(s), s)
	}
}

func TestIsDisposableEmail(t *testing.T) {
	rs := DefaultRuleSet()

	assert.True(t, rs.isDisposableEmail("x@mailinator.com"))
	assert.True(t, rs.isDisposableEmail("x@eu.guerrillamail.net"))
	assert.True(t, rs.isDisposableEmail("Spammer <x@YOPMAIL.fr>"))
	assert.False(t, rs.isDisposableEmail("x@gmail.com"))
	assert.False(t, rs.isDisposableEmail("tempmail@gmail.com"))
	assert.False(t, rs.isDisposableEmail("no-at-sign"))
}
