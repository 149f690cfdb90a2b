package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/mikey/comment-spam-guard/internal/adapters/store"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCliFilter(t *testing.T, jsonOut bool) (*CliFilter, *bytes.Buffer) {
	logger := zap.NewNop()
	st := store.NewMemoryStore(logger, store.Options{})
	t.Cleanup(st.Stop)

	rules := core.DefaultRuleSet()
	service := core.NewModerationService(core.NewSpamEvaluator(rules, st, st, logger), st, nil, nil, core.ReviewPolicy{}, logger)

	var out bytes.Buffer
	return NewCliFilter(service, core.NewBlocklistService(st, rules, logger), logger, &out, true, jsonOut), &out
}

func TestCliFilterPrintsVerdict(t *testing.T) {
	f, out := newTestCliFilter(t, false)

	d, err := f.ModerateComment(context.Background(), &core.Comment{
		AuthorName: "Spammer",
		Content:    "Win at the casino, play the lottery!",
	})
	require.NoError(t, err)
	assert.Equal(t, core.StatusHeld, d.Status)

	printed := out.String()
	assert.Contains(t, printed, "Author: Spammer")
	assert.Contains(t, printed, "Status: held")
	assert.Contains(t, printed, "Score: 60 (threshold 50)")
	assert.Contains(t, printed, `  - Contains blocked word: "casino"`)
	assert.Contains(t, printed, "Content preview:")
}

func TestCliFilterJSON(t *testing.T) {
	f, out := newTestCliFilter(t, true)

	_, err := f.ModerateComment(context.Background(), &core.Comment{Content: "Lovely write-up"})
	require.NoError(t, err)

	var decoded core.ModerationDecision
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, core.StatusApproved, decoded.Status)
	assert.Equal(t, 0, decoded.Result.Score)
}

func TestCliFilterBlocklist(t *testing.T) {
	ctx := context.Background()
	f, out := newTestCliFilter(t, false)

	require.NoError(t, f.AddWord(ctx, "Essay Writing"))
	assert.Contains(t, out.String(), `Added "essay writing"`)

	out.Reset()
	require.NoError(t, f.ListWords(ctx))
	assert.Contains(t, out.String(), "Stored words (1):")
	assert.Contains(t, out.String(), "viagra")

	out.Reset()
	require.NoError(t, f.RemoveWord(ctx, "essay writing"))
	assert.Contains(t, out.String(), `Removed "essay writing"`)

	assert.ErrorIs(t, f.AddWord(ctx, " "), core.ErrEmptyWord)
}
