package factory

import (
	"fmt"

	"github.com/mikey/comment-spam-guard/internal/config"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/utils"
	"go.uber.org/zap"
)

// ReviewerFactory picks the LLM provider used for second opinions
type ReviewerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewerFactory creates a new reviewer factory
func NewReviewerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ReviewerFactory {
	return &ReviewerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateReviewer returns the configured reviewer, or nil when review is disabled
func (f *ReviewerFactory) CreateReviewer() (core.CommentReviewer, error) {
	if !f.cfg.GetReview().Enabled {
		f.logger.Info("LLM review disabled")
		return nil, nil
	}

	provider := f.cfg.GetLLM().Provider
	switch provider {
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger, f.textProcessor).CreateReviewer()
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger, f.textProcessor).CreateReviewer()
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger, f.textProcessor).CreateReviewer()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
