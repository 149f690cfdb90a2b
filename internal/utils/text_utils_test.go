package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "short", tp.TruncateText("short", 10))
	assert.Equal(t, "short", tp.TruncateText("short", 0))
	assert.Equal(t, "abc"+truncationNote, tp.TruncateText("abcdef", 3))

	// "é" is two bytes; cutting in the middle backs off to the rune start
	out := tp.TruncateText("aéb", 2)
	assert.Equal(t, "a"+truncationNote, out)
	assert.True(t, utf8.ValidString(out))
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "héllo", tp.SanitizeUTF8("héllo"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.True(t, utf8.ValidString(tp.ProcessText("x\xfe\xffy", 100)))
}

func TestExtractJSONObject(t *testing.T) {
	obj, ok := ExtractJSONObject("Sure!\n```json\n{\"is_spam\": true}\n```")
	require.True(t, ok)
	assert.Equal(t, `{"is_spam": true}`, obj)

	_, ok = ExtractJSONObject("no json here")
	assert.False(t, ok)

	_, ok = ExtractJSONObject("} backwards {")
	assert.False(t, ok)
}

func TestParseReviewResponse(t *testing.T) {
	resp, err := ParseReviewResponse(`{"is_spam": true, "confidence": 0.92, "explanation": "link farm"}`)
	require.NoError(t, err)
	assert.True(t, resp.IsSpam)
	assert.Equal(t, 0.92, resp.Confidence)
	assert.Equal(t, "link farm", resp.Explanation)

	resp, err = ParseReviewResponse("Here is my answer: {\"is_spam\": false, \"confidence\": 3} hope it helps")
	require.NoError(t, err)
	assert.False(t, resp.IsSpam)
	assert.Equal(t, 1.0, resp.Confidence)

	_, err = ParseReviewResponse("I cannot help with that")
	assert.Error(t, err)

	_, err = ParseReviewResponse("{not json}")
	assert.Error(t, err)
}

func TestFormatReviewPrompt(t *testing.T) {
	prompt := FormatReviewPrompt(&core.Comment{
		PostID:      "go-generics",
		AuthorName:  "Bob",
		AuthorEmail: "bob@example.com",
	}, "Nice post")

	assert.Contains(t, prompt, "Author: Bob")
	assert.Contains(t, prompt, "Email domain: example.com")
	assert.Contains(t, prompt, "Post: go-generics")
	assert.Contains(t, prompt, "Nice post")
	assert.NotContains(t, prompt, "bob@")

	anon := FormatReviewPrompt(&core.Comment{}, "hi")
	assert.True(t, strings.Contains(anon, "Author: (anonymous)"))
	assert.Contains(t, anon, "Email domain: (none)")
}

func TestToReview(t *testing.T) {
	r := (&ReviewResponse{IsSpam: true, Confidence: 0.9, Explanation: "ads"}).ToReview("gpt-4o-mini", "")
	assert.True(t, r.IsSpam)
	assert.Equal(t, "gpt-4o-mini", r.ModelUsed)
	assert.NotEmpty(t, r.ProcessingID)
	assert.False(t, r.ReviewedAt.IsZero())

	r = (&ReviewResponse{}).ToReview("m", "chatcmpl-1")
	assert.Equal(t, "chatcmpl-1", r.ProcessingID)
}
