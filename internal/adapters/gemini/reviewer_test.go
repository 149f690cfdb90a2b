package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeModel struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func newTestReviewer(m ContentGenerator) *Reviewer {
	logger := zap.NewNop()
	return NewReviewerWithModel(m, "gemini-1.5-flash", 4096, logger, utils.NewTextProcessor(logger))
}

func TestReviewComment(t *testing.T) {
	m := &fakeModel{resp: textResponse(`{"is_spam": true, "confidence": 0.85,`, ` "explanation": "casino link"}`)}
	r := newTestReviewer(m)

	review, err := r.ReviewComment(context.Background(), &core.Comment{AuthorName: "Eve", Content: "play now"})
	require.NoError(t, err)

	assert.True(t, review.IsSpam)
	assert.Equal(t, 0.85, review.Confidence)
	assert.Equal(t, "casino link", review.Explanation)
	assert.Equal(t, "gemini-1.5-flash", review.ModelUsed)
	assert.Contains(t, m.prompt, "Author: Eve")
	assert.NoError(t, r.Close())
}

func TestReviewCommentErrors(t *testing.T) {
	ctx := context.Background()
	comment := &core.Comment{Content: "hello"}

	_, err := newTestReviewer(&fakeModel{err: errors.New("quota exceeded")}).ReviewComment(ctx, comment)
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = newTestReviewer(&fakeModel{resp: &genai.GenerateContentResponse{}}).ReviewComment(ctx, comment)
	assert.ErrorContains(t, err, "empty response")

	_, err = newTestReviewer(&fakeModel{resp: textResponse("not sure")}).ReviewComment(ctx, comment)
	assert.Error(t, err)
}
