package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mikey/comment-spam-guard/internal/core"
	"go.uber.org/zap"
)

const previewLength = 500

// CliFilter moderates comments from the command line and prints the outcome
type CliFilter struct {
	service   *core.ModerationService
	blocklist *core.BlocklistService
	logger    *zap.Logger
	out       io.Writer
	verbose   bool
	jsonOut   bool
}

// NewCliFilter creates a new CLI filter writing to out
func NewCliFilter(service *core.ModerationService, blocklist *core.BlocklistService, logger *zap.Logger, out io.Writer, verbose, jsonOut bool) *CliFilter {
	return &CliFilter{
		service:   service,
		blocklist: blocklist,
		logger:    logger,
		out:       out,
		verbose:   verbose,
		jsonOut:   jsonOut,
	}
}

// ModerateComment moderates a comment and prints the decision
func (f *CliFilter) ModerateComment(ctx context.Context, comment *core.Comment) (*core.ModerationDecision, error) {
	f.logger.Debug("Processing comment", zap.String("author_id", comment.AuthorID))

	start := time.Now()
	decision, err := f.service.ModerateComment(ctx, comment)
	if err != nil {
		f.logger.Error("Failed to moderate comment", zap.Error(err))
		return nil, err
	}
	duration := time.Since(start)

	if f.jsonOut {
		return decision, f.printJSON(decision)
	}

	fmt.Fprintf(f.out, "\n=== Comment ===\n")
	fmt.Fprintf(f.out, "Author: %s\n", valueOr(comment.AuthorName, "(anonymous)"))
	fmt.Fprintf(f.out, "Email: %s\n", valueOr(comment.AuthorEmail, "(none)"))
	fmt.Fprintf(f.out, "Length: %d characters\n", len([]rune(comment.Content)))
	if f.verbose {
		preview := []rune(comment.Content)
		if len(preview) > previewLength {
			preview = append(preview[:previewLength], []rune("...")...)
		}
		fmt.Fprintf(f.out, "\nContent preview:\n%s\n", string(preview))
	}

	result := decision.Result
	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Status: %s\n", decision.Status)
	fmt.Fprintf(f.out, "Is spam: %t\n", result.IsSpam)
	fmt.Fprintf(f.out, "Score: %d (threshold %d)\n", result.Score, core.SpamThreshold)
	if len(result.Reasons) > 0 {
		fmt.Fprintf(f.out, "Reasons:\n")
		for _, r := range result.Reasons {
			fmt.Fprintf(f.out, "  - %s\n", r)
		}
	}
	if decision.Trusted {
		fmt.Fprintf(f.out, "Trusted author domain\n")
	}
	if rv := decision.Review; rv != nil {
		fmt.Fprintf(f.out, "\n=== LLM review ===\n")
		fmt.Fprintf(f.out, "Is spam: %t\n", rv.IsSpam)
		fmt.Fprintf(f.out, "Confidence: %.2f\n", rv.Confidence)
		fmt.Fprintf(f.out, "Explanation: %s\n", rv.Explanation)
		fmt.Fprintf(f.out, "Model used: %s\n", rv.ModelUsed)
	}
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return decision, nil
}

// ListWords prints the stored and effective blocklists
func (f *CliFilter) ListWords(ctx context.Context) error {
	stored, err := f.blocklist.Stored(ctx)
	if err != nil {
		return err
	}
	if f.jsonOut {
		return f.printJSON(map[string][]string{
			"stored":    stored,
			"effective": f.blocklist.Effective(ctx),
		})
	}

	fmt.Fprintf(f.out, "Stored words (%d):\n", len(stored))
	for _, w := range stored {
		fmt.Fprintf(f.out, "  %s\n", w)
	}
	fmt.Fprintf(f.out, "Effective blocklist: %s\n", strings.Join(f.blocklist.Effective(ctx), ", "))
	return nil
}

// AddWord adds a word to the stored blocklist
func (f *CliFilter) AddWord(ctx context.Context, word string) error {
	w, err := f.blocklist.Add(ctx, word)
	if err != nil {
		return err
	}
	fmt.Fprintf(f.out, "Added %q\n", w)
	return nil
}

// RemoveWord removes a word from the stored blocklist
func (f *CliFilter) RemoveWord(ctx context.Context, word string) error {
	w, err := f.blocklist.Remove(ctx, word)
	if err != nil {
		return err
	}
	fmt.Fprintf(f.out, "Removed %q\n", w)
	return nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}

func (f *CliFilter) printJSON(v interface{}) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
