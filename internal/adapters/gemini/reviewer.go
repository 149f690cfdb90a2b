package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ContentGenerator is the part of a genai model the reviewer uses
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Reviewer asks Google Gemini for a second opinion on comments
type Reviewer struct {
	client        *genai.Client
	model         ContentGenerator
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewer creates a Gemini reviewer using an API key
func NewReviewer(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Reviewer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(utils.ReviewSystemPrompt))

	r := NewReviewerWithModel(model, modelName, maxBodySize, logger, textProcessor)
	r.client = client
	return r, nil
}

// NewReviewerWithModel creates a reviewer around an already configured model
func NewReviewerWithModel(model ContentGenerator, modelName string, maxBodySize int, logger *zap.Logger, textProcessor *utils.TextProcessor) *Reviewer {
	return &Reviewer{
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Close closes the underlying client
func (r *Reviewer) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ReviewComment asks the model whether the comment is spam
func (r *Reviewer) ReviewComment(ctx context.Context, comment *core.Comment) (*core.Review, error) {
	content := r.textProcessor.ProcessText(comment.Content, r.maxBodySize)
	prompt := utils.FormatReviewPrompt(comment, content)

	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, errors.New("empty response from Gemini")
	}

	parsed, err := utils.ParseReviewResponse(text)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Gemini review received",
		zap.String("model", r.modelName),
		zap.Bool("is_spam", parsed.IsSpam),
		zap.Float64("confidence", parsed.Confidence))

	return parsed.ToReview(r.modelName, ""), nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
