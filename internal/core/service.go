package core

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/comment-spam-guard/internal/metrics"
	"github.com/mikey/comment-spam-guard/internal/whitelist"
	"go.uber.org/zap"
)

// ReviewPolicy decides when a comment is sent to the LLM reviewer
type ReviewPolicy struct {
	Enabled       bool
	Threshold     int
	MinConfidence float64
	Timeout       time.Duration
}

// ModerationService is the core service gating incoming comments
type ModerationService struct {
	evaluator *SpamEvaluator
	history   CommentHistoryStore
	reviewer  CommentReviewer
	trusted   *whitelist.Checker
	policy    ReviewPolicy
	logger    *zap.Logger
	now       func() time.Time
}

// NewModerationService creates a new moderation service. reviewer may be nil.
func NewModerationService(
	evaluator *SpamEvaluator,
	history CommentHistoryStore,
	reviewer CommentReviewer,
	trusted *whitelist.Checker,
	policy ReviewPolicy,
	logger *zap.Logger,
) *ModerationService {
	if trusted == nil {
		trusted = whitelist.NewChecker(nil, logger)
	}
	return &ModerationService{
		evaluator: evaluator,
		history:   history,
		reviewer:  reviewer,
		trusted:   trusted,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckSpam runs the spam rules without recording anything
func (s *ModerationService) CheckSpam(ctx context.Context, input SpamCheckInput) (*SpamCheckResult, error) {
	return s.evaluator.CheckSpam(ctx, input)
}

// ModerateComment checks a submitted comment, sanitizes its body and decides
// whether it is published or held for a moderator
func (s *ModerationService) ModerateComment(ctx context.Context, comment *Comment) (*ModerationDecision, error) {
	result, err := s.evaluator.CheckSpam(ctx, comment.Input())
	if err != nil {
		return nil, fmt.Errorf("spam check failed: %w", err)
	}

	decision := &ModerationDecision{
		Status:  StatusApproved,
		Content: SanitizeContent(comment.Content),
		Result:  result,
		Trusted: s.trusted.IsWhitelisted(comment.AuthorEmail),
	}

	if result.IsSpam {
		decision.Status = StatusHeld
	} else if s.shouldReview(result, decision.Trusted) {
		decision.Review = s.requestReview(ctx, comment)
		if r := decision.Review; r != nil && r.IsSpam && r.Confidence >= s.policy.MinConfidence {
			decision.Status = StatusHeld
		}
	}

	// Held comments still count towards the author's rate
	if comment.AuthorID != "" && s.history != nil {
		if err := s.history.RecordComment(ctx, comment.AuthorID, s.now()); err != nil {
			s.logger.Error("Failed to record comment history",
				zap.String("author_id", comment.AuthorID),
				zap.Error(err))
		}
	}

	metrics.ModerationDecisions.WithLabelValues(string(decision.Status)).Inc()
	s.logger.Info("Comment moderated",
		zap.String("post_id", comment.PostID),
		zap.String("author_id", comment.AuthorID),
		zap.String("status", string(decision.Status)),
		zap.Int("score", result.Score),
		zap.Strings("reasons", result.Reasons))

	return decision, nil
}

func (s *ModerationService) shouldReview(result *SpamCheckResult, trusted bool) bool {
	if !s.policy.Enabled || s.reviewer == nil || trusted {
		return false
	}
	return result.Score >= s.policy.Threshold
}

// requestReview asks the reviewer for a second opinion; failures are logged and ignored
func (s *ModerationService) requestReview(ctx context.Context, comment *Comment) *Review {
	metrics.ReviewRequests.Inc()

	if s.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.policy.Timeout)
		defer cancel()
	}

	review, err := s.reviewer.ReviewComment(ctx, comment)
	if err != nil {
		metrics.ReviewFailures.Inc()
		s.logger.Warn("LLM review failed, keeping rule verdict", zap.Error(err))
		return nil
	}

	s.logger.Debug("LLM review complete",
		zap.Bool("is_spam", review.IsSpam),
		zap.Float64("confidence", review.Confidence),
		zap.String("model", review.ModelUsed))
	return review
}
