package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Reviewer asks an OpenAI chat model for a second opinion on comments
type Reviewer struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewer creates a new OpenAI reviewer. An empty baseURL uses the public API.
func NewReviewer(
	apiKey string,
	baseURL string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Reviewer {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &Reviewer{
		client:        openai.NewClientWithConfig(clientCfg),
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ReviewComment asks the model whether the comment is spam
func (r *Reviewer) ReviewComment(ctx context.Context, comment *core.Comment) (*core.Review, error) {
	content := r.textProcessor.ProcessText(comment.Content, r.maxBodySize)

	req := openai.ChatCompletionRequest{
		Model: r.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: utils.ReviewSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: utils.FormatReviewPrompt(comment, content),
			},
		},
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
		TopP:        r.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from OpenAI")
	}

	parsed, err := utils.ParseReviewResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("OpenAI review received",
		zap.String("model", r.modelName),
		zap.String("id", resp.ID),
		zap.Bool("is_spam", parsed.IsSpam),
		zap.Float64("confidence", parsed.Confidence))

	return parsed.ToReview(r.modelName, resp.ID), nil
}
