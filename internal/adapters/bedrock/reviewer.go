package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/utils"
	"go.uber.org/zap"
)

const anthropicVersion = "bedrock-2023-05-31"

// InvokeModelAPI is the part of the Bedrock runtime client the reviewer uses
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Reviewer asks a model hosted on Amazon Bedrock for a second opinion on comments
type Reviewer struct {
	client        InvokeModelAPI
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewer creates a new Bedrock reviewer
func NewReviewer(
	client InvokeModelAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Reviewer {
	return &Reviewer{
		client:        client,
		modelID:       modelID,
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
	prompt := utils.FormatReviewPrompt(comment, content)

	payload, err := r.requestBody(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := r.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(r.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := r.responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	parsed, err := utils.ParseReviewResponse(text)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Bedrock review received",
		zap.String("model", r.modelID),
		zap.Bool("is_spam", parsed.IsSpam),
		zap.Float64("confidence", parsed.Confidence))

	return parsed.ToReview(r.modelID, ""), nil
}

// requestBody encodes the prompt in the model family's request format
func (r *Reviewer) requestBody(prompt string) ([]byte, error) {
	switch {
	case r.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"max_tokens":        r.maxTokens,
			"temperature":       r.temperature,
			"top_p":             r.topP,
			"system":            utils.ReviewSystemPrompt,
			"messages": []map[string]interface{}{
				{"role": "user", "content": prompt},
			},
		})
	case r.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": r.maxTokens,
				"temperature":   r.temperature,
				"topP":          r.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  r.maxTokens,
			"temperature": r.temperature,
			"top_p":       r.topP,
		})
	}
}

// responseText pulls the generated text out of the model family's response format
func (r *Reviewer) responseText(body []byte) (string, error) {
	switch {
	case r.isAnthropicModel():
		var resp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		for _, part := range resp.Content {
			if part.Type == "text" {
				return part.Text, nil
			}
		}
		return "", errors.New("empty response from Claude model")
	case r.isAmazonTitanModel():
		var resp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(resp.Results) == 0 {
			return "", errors.New("empty response from Titan model")
		}
		return resp.Results[0].OutputText, nil
	default:
		var resp struct {
			Output     string `json:"output"`
			Text       string `json:"text"`
			Generation string `json:"generation"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal model response: %w", err)
		}
		for _, s := range []string{resp.Output, resp.Text, resp.Generation} {
			if s != "" {
				return s, nil
			}
		}
		return string(body), nil
	}
}

func (r *Reviewer) isAnthropicModel() bool {
	return strings.Contains(r.modelID, "anthropic.claude")
}

func (r *Reviewer) isAmazonTitanModel() bool {
	return strings.Contains(r.modelID, "amazon.titan")
}
