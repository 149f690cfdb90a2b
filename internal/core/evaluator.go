package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/cloudflare/ahocorasick"
	"github.com/mikey/comment-spam-guard/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SpamEvaluator scores comments against the heuristic spam rules
type SpamEvaluator struct {
	rules     *RuleSet
	blocklist BlocklistStore
	history   CommentHistoryStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewSpamEvaluator creates a new spam evaluator. Either store may be nil, in
// which case the built-in blocklist is used alone and rate limiting never fires.
func NewSpamEvaluator(rules *RuleSet, blocklist BlocklistStore, history CommentHistoryStore, logger *zap.Logger) *SpamEvaluator {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &SpamEvaluator{
		rules:     rules,
		blocklist: blocklist,
		history:   history,
		logger:    logger,
		now:       time.Now,
	}
}

// signals are the external inputs fetched for a single check
type signals struct {
	blocklist   []string
	recentCount int
}

// CheckSpam scores a comment. Every rule is evaluated; the only error returned
// comes from the comment history lookup.
func (e *SpamEvaluator) CheckSpam(ctx context.Context, input SpamCheckInput) (*SpamCheckResult, error) {
	result := &SpamCheckResult{Reasons: []string{}}
	metrics.CommentsChecked.Inc()

	if strings.TrimSpace(input.Content) == "" {
		return result, nil
	}

	start := time.Now()
	defer func() {
		metrics.CheckLatency.Observe(time.Since(start).Seconds())
	}()

	sig, err := e.fetchSignals(ctx, input.AuthorID)
	if err != nil {
		return nil, err
	}

	add := func(rule string, score int, reason string) {
		result.Score += score
		result.Reasons = append(result.Reasons, reason)
		metrics.RuleTriggers.WithLabelValues(rule).Inc()
	}

	content := input.Content
	lowered := cases.Lower(language.Und).String(content)
	runes := []rune(content)
	length := len(runes)
	urlCount := len(urlPattern.FindAllStringIndex(content, -1))
	wordCount := len(strings.Fields(content))

	// 1. blocked words
	for _, word := range matchBlockedWords(lowered, sig.blocklist) {
		add("blocked_word", blockedWordScore, fmt.Sprintf(`Contains blocked word: "%s"`, word))
	}

	// 2. URL count
	if urlCount > maxURLs {
		add("url_count", tooManyURLsScore, "Too many URLs")
	}

	// 3. URL to text ratio
	if wordCount > 0 && float64(urlCount)/float64(wordCount) > maxURLRatio {
		add("url_ratio", urlRatioScore, "High URL to text ratio")
	}

	// 4. shorteners and low-trust TLDs
	if e.rules.hasSuspiciousURL(lowered) {
		add("suspicious_url", suspiciousPatternScore, "Contains suspicious URL pattern")
	}

	// 5. caps
	if length > minCapsLength && float64(countUpper(runes))/float64(length) > maxCapsRatio {
		add("excessive_caps", excessiveCapsScore, "Excessive capitalization")
	}

	// 6. repeated characters
	if hasRepeatedRun(runes, repeatRunLength) {
		add("repeated_chars", repeatedCharsScore, "Repeated characters detected")
	}

	// 7. disposable email providers
	if input.AuthorEmail != "" && e.rules.isDisposableEmail(input.AuthorEmail) {
		add("suspicious_email", suspiciousEmailScore, "Suspicious email domain")
	}

	// 8. short content with a link
	if wordCount < minWordsWithURL && urlCount > 0 {
		add("short_with_url", shortWithURLScore, "Very short content with URL")
	}

	// 9. rate limiting
	if input.AuthorID != "" && sig.recentCount >= e.rules.RateLimit {
		add("rate_limit", rateLimitScore, "Too many comments in short time")
	}

	// 10. script injection
	if scriptPattern.MatchString(content) {
		add("script_injection", scriptInjectionScore, "Potential script injection")
	}

	// 11. length
	if length > maxContentLength {
		add("excessive_length", excessiveLengthScore, "Excessively long content")
	}

	result.IsSpam = result.Score >= SpamThreshold
	if result.IsSpam {
		metrics.CommentsFlagged.Inc()
	}

	e.logger.Debug("Spam check complete",
		zap.String("author_id", input.AuthorID),
		zap.Int("score", result.Score),
		zap.Bool("is_spam", result.IsSpam),
		zap.Strings("reasons", result.Reasons))

	return result, nil
}

// fetchSignals loads the blocklist and the recent comment count concurrently
func (e *SpamEvaluator) fetchSignals(ctx context.Context, authorID string) (*signals, error) {
	sig := &signals{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sig.blocklist = MergeBlocklist(e.rules.BlockedWords, e.storedWords(gctx))
		return nil
	})

	if authorID != "" && e.history != nil {
		g.Go(func() error {
			since := e.now().Add(-e.rules.RateWindow)
			n, err := e.history.CountRecentByAuthor(gctx, authorID, since)
			if err != nil {
				metrics.HistoryReadFailures.Inc()
				return fmt.Errorf("failed to count recent comments for author %s: %w", authorID, err)
			}
			sig.recentCount = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sig, nil
}

// storedWords reads the dynamic blocklist, falling back to nothing on error
func (e *SpamEvaluator) storedWords(ctx context.Context) []string {
	if e.blocklist == nil {
		return nil
	}
	words, err := e.blocklist.ListWords(ctx)
	if err != nil {
		metrics.BlocklistReadFailures.Inc()
		e.logger.Warn("Failed to read stored blocklist, using built-in words only", zap.Error(err))
		return nil
	}
	return words
}

// matchBlockedWords returns the distinct blocklist words found in text, in blocklist order
func matchBlockedWords(text string, words []string) []string {
	if len(words) == 0 || text == "" {
		return nil
	}
	matcher := ahocorasick.NewStringMatcher(words)
	hits := matcher.Match([]byte(text))
	sort.Ints(hits)

	found := make([]string, 0, len(hits))
	for i, idx := range hits {
		if i > 0 && hits[i-1] == idx {
			continue
		}
		found = append(found, words[idx])
	}
	return found
}

func countUpper(runes []rune) int {
	n := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

// hasRepeatedRun reports whether any character other than a newline repeats n times in a row
func hasRepeatedRun(runes []rune, n int) bool {
	run := 0
	var prev rune
	for i, r := range runes {
		if i > 0 && r == prev && r != '\n' {
			run++
		} else {
			run = 1
		}
		if run >= n && r != '\n' {
			return true
		}
		prev = r
	}
	return false
}
