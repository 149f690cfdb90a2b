package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikey/comment-spam-guard/internal/whitelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// borderline scores 45: high URL ratio plus short content with a link
const borderline = "see https://a.example https://b.example"

func newTestService(h *fakeHistory, r CommentReviewer, policy ReviewPolicy, trusted ...string) *ModerationService {
	logger := zap.NewNop()
	e := NewSpamEvaluator(DefaultRuleSet(), &fakeBlocklist{}, h, logger)
	return NewModerationService(e, h, r, whitelist.NewChecker(trusted, logger), policy, logger)
}

func reviewOn() ReviewPolicy {
	return ReviewPolicy{Enabled: true, Threshold: 25, MinConfidence: 0.8, Timeout: time.Second}
}

func TestModerateCommentApprovesCleanComment(t *testing.T) {
	assert := assert.New(t)
	h := newFakeHistory()
	r := &fakeReviewer{}
	s := newTestService(h, r, reviewOn())

	d, err := s.ModerateComment(context.Background(), &Comment{
		PostID:   "p1",
		AuthorID: "u1",
		Content:  `Great post! <iframe src="https://ads.example"></iframe>`,
	})
	require.NoError(t, err)

	assert.Equal(StatusApproved, d.Status)
	assert.Equal("Great post! ", d.Content)
	assert.Nil(d.Review)
	assert.Equal(0, r.calls)
	assert.Equal(1, h.recorded("u1"))
}

func TestModerateCommentHoldsSpam(t *testing.T) {
	assert := assert.New(t)
	h := newFakeHistory()
	r := &fakeReviewer{review: &Review{IsSpam: false, Confidence: 1}}
	s := newTestService(h, r, reviewOn())

	d, err := s.ModerateComment(context.Background(), &Comment{
		AuthorID: "u1",
		Content:  "Buy viagra and cialis <script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.Equal(StatusHeld, d.Status)
	assert.True(d.Result.IsSpam)
	assert.Equal("Buy viagra and cialis ", d.Content)
	assert.Equal(0, r.calls, "rule verdict is final for spam")
	assert.Equal(1, h.recorded("u1"), "held comments still count")
}

func TestModerateCommentReview(t *testing.T) {
	cases := []struct {
		name   string
		review *Review
		err    error
		status CommentStatus
	}{
		{"confident spam", &Review{IsSpam: true, Confidence: 0.95}, nil, StatusHeld},
		{"unsure spam", &Review{IsSpam: true, Confidence: 0.5}, nil, StatusApproved},
		{"ham", &Review{IsSpam: false, Confidence: 0.99}, nil, StatusApproved},
		{"reviewer down", nil, errors.New("throttled"), StatusApproved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeReviewer{review: tc.review, err: tc.err}
			s := newTestService(newFakeHistory(), r, reviewOn())

			d, err := s.ModerateComment(context.Background(), &Comment{Content: borderline})
			require.NoError(t, err)

			assert.Equal(t, 1, r.calls)
			assert.Equal(t, tc.status, d.Status)
			assert.Equal(t, 45, d.Result.Score)
			assert.False(t, d.Result.IsSpam, "a review never changes the rule result")
			if tc.err != nil {
				assert.Nil(t, d.Review)
			} else {
				assert.Equal(t, tc.review, d.Review)
			}
		})
	}
}

func TestModerateCommentReviewSkipped(t *testing.T) {
	spam := &Review{IsSpam: true, Confidence: 1}

	t.Run("disabled", func(t *testing.T) {
		r := &fakeReviewer{review: spam}
		s := newTestService(newFakeHistory(), r, ReviewPolicy{Threshold: 25})
		d, err := s.ModerateComment(context.Background(), &Comment{Content: borderline})
		require.NoError(t, err)
		assert.Equal(t, 0, r.calls)
		assert.Equal(t, StatusApproved, d.Status)
	})

	t.Run("below threshold", func(t *testing.T) {
		r := &fakeReviewer{review: spam}
		s := newTestService(newFakeHistory(), r, reviewOn())
		d, err := s.ModerateComment(context.Background(), &Comment{Content: "soooooo good"})
		require.NoError(t, err)
		assert.Equal(t, 0, r.calls)
		assert.Equal(t, StatusApproved, d.Status)
	})

	t.Run("trusted author", func(t *testing.T) {
		r := &fakeReviewer{review: spam}
		s := newTestService(newFakeHistory(), r, reviewOn(), "blog.dev")
		d, err := s.ModerateComment(context.Background(), &Comment{Content: borderline, AuthorEmail: "editor@blog.dev"})
		require.NoError(t, err)
		assert.Equal(t, 0, r.calls)
		assert.True(t, d.Trusted)
		assert.Equal(t, StatusApproved, d.Status)
	})

	t.Run("no reviewer", func(t *testing.T) {
		s := newTestService(newFakeHistory(), nil, reviewOn())
		d, err := s.ModerateComment(context.Background(), &Comment{Content: borderline})
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, d.Status)
	})
}

func TestModerateCommentHistoryErrors(t *testing.T) {
	t.Run("count failure fails the request", func(t *testing.T) {
		h := newFakeHistory()
		h.countErr = errors.New("redis: connection refused")
		s := newTestService(h, nil, ReviewPolicy{})

		d, err := s.ModerateComment(context.Background(), &Comment{AuthorID: "u1", Content: "hello"})
		assert.Nil(t, d)
		assert.ErrorIs(t, err, h.countErr)
	})

	t.Run("record failure is logged only", func(t *testing.T) {
		h := newFakeHistory()
		h.recordErr = errors.New("disk full")
		s := newTestService(h, nil, ReviewPolicy{})

		d, err := s.ModerateComment(context.Background(), &Comment{AuthorID: "u1", Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, d.Status)
	})
}

func TestModerateCommentRateLimitAcrossCalls(t *testing.T) {
	h := newFakeHistory()
	s := newTestService(h, nil, ReviewPolicy{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := s.ModerateComment(ctx, &Comment{AuthorID: "u1", Content: "thoughtful remark"})
		require.NoError(t, err)
		assert.Empty(t, d.Result.Reasons)
	}

	d, err := s.ModerateComment(ctx, &Comment{AuthorID: "u1", Content: "thoughtful remark"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Too many comments in short time"}, d.Result.Reasons)
}
