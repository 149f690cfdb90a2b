package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mikey/comment-spam-guard/internal/config"
	"github.com/mikey/comment-spam-guard/internal/whitelist"
)

// Per-rule score increments.
const (
	blockedWordScore       = 30
	tooManyURLsScore       = 20
	urlRatioScore          = 25
	suspiciousPatternScore = 15
	excessiveCapsScore     = 15
	repeatedCharsScore     = 10
	suspiciousEmailScore   = 25
	shortWithURLScore      = 20
	rateLimitScore         = 30
	scriptInjectionScore   = 50
	excessiveLengthScore   = 15
)

const (
	maxURLs           = 3
	maxURLRatio       = 0.3
	maxCapsRatio      = 0.5
	minCapsLength     = 20
	repeatRunLength   = 5
	minWordsWithURL   = 5
	maxContentLength  = 10000
	defaultRateLimit  = 5
	defaultRateWindow = 5 * time.Minute
)

var (
	urlPattern    = regexp.MustCompile(`(?i)https?://`)
	scriptPattern = regexp.MustCompile(`(?i)<script|javascript:|onclick|onerror`)
)

// RuleSet is the tunable data behind the spam rules
type RuleSet struct {
	BlockedWords           []string
	DisposableEmailDomains []string
	RateLimit              int
	RateWindow             time.Duration

	suspiciousURL []*regexp.Regexp
}

// NewRuleSet compiles the rule data. Shortener domains match anywhere as whole
// hostnames; suspicious TLDs only match when followed by a path.
func NewRuleSet(blockedWords, shortenerDomains, suspiciousTLDs, disposableDomains []string, rateLimit int, rateWindow time.Duration) (*RuleSet, error) {
	rs := &RuleSet{
		BlockedWords:           normalizeWords(blockedWords),
		DisposableEmailDomains: normalizeWords(disposableDomains),
		RateLimit:              rateLimit,
		RateWindow:             rateWindow,
	}
	if rs.RateLimit <= 0 {
		rs.RateLimit = defaultRateLimit
	}
	if rs.RateWindow <= 0 {
		rs.RateWindow = defaultRateWindow
	}

	if domains := normalizeWords(shortenerDomains); len(domains) > 0 {
		re, err := regexp.Compile(`\b(?:` + quoteAll(domains) + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("invalid shortener domain list: %w", err)
		}
		rs.suspiciousURL = append(rs.suspiciousURL, re)
	}
	if tlds := normalizeWords(suspiciousTLDs); len(tlds) > 0 {
		trimmed := make([]string, len(tlds))
		for i, tld := range tlds {
			trimmed[i] = strings.TrimPrefix(tld, ".")
		}
		re, err := regexp.Compile(`[a-z0-9-]\.(?:` + quoteAll(trimmed) + `)/`)
		if err != nil {
			return nil, fmt.Errorf("invalid suspicious TLD list: %w", err)
		}
		rs.suspiciousURL = append(rs.suspiciousURL, re)
	}

	return rs, nil
}

// NewRuleSetFromConfig builds a rule set from the spam section of the configuration
func NewRuleSetFromConfig(cfg *config.Config) (*RuleSet, error) {
	rules := cfg.GetSpamRules()
	return NewRuleSet(
		rules.BlockedWords,
		rules.ShortenerDomains,
		rules.SuspiciousTLDs,
		rules.DisposableEmailDomains,
		rules.RateLimit,
		rules.RateWindow,
	)
}

// DefaultRuleSet returns the rule set built from the built-in lists
func DefaultRuleSet() *RuleSet {
	rs, err := NewRuleSet(
		config.DefaultBlockedWords,
		config.DefaultShortenerDomains,
		config.DefaultSuspiciousTLDs,
		config.DefaultDisposableEmailDomains,
		defaultRateLimit,
		defaultRateWindow,
	)
	if err != nil {
		panic(err)
	}
	return rs
}

// hasSuspiciousURL reports whether lowered content matches any suspicious URL pattern
func (rs *RuleSet) hasSuspiciousURL(lowered string) bool {
	for _, re := range rs.suspiciousURL {
		if re.MatchString(lowered) {
			return true
		}
	}
	return false
}

// isDisposableEmail reports whether the email's domain contains a disposable provider name
func (rs *RuleSet) isDisposableEmail(email string) bool {
	domain := whitelist.Domain(email)
	if domain == "" {
		return false
	}
	for _, d := range rs.DisposableEmailDomains {
		if strings.Contains(domain, d) {
			return true
		}
	}
	return false
}

// MergeBlocklist returns the union of the built-in and stored words.
// Built-in words keep their order, stored words follow sorted; duplicates and
// blanks are dropped and everything is lower-cased.
func MergeBlocklist(builtin, stored []string) []string {
	seen := make(map[string]struct{}, len(builtin)+len(stored))
	merged := make([]string, 0, len(builtin)+len(stored))

	add := func(w string) {
		w = NormalizeWord(w)
		if w == "" {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		merged = append(merged, w)
	}

	for _, w := range builtin {
		add(w)
	}

	extra := normalizeWords(stored)
	sort.Strings(extra)
	for _, w := range extra {
		add(w)
	}

	return merged
}

// NormalizeWord trims and lower-cases a blocklist word
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = NormalizeWord(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func quoteAll(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
