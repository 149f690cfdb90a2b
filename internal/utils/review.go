package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/comment-spam-guard/internal/core"
)

// ReviewSystemPrompt is sent as the system message where the provider supports one
const ReviewSystemPrompt = "You are a comment moderation system for a blog. Respond only with JSON."

const reviewPromptFormat = `You are a comment moderation system for a blog. Decide whether the comment below is spam.
Spam includes advertising, link farming, scams, phishing and off-topic promotion.
Respond with a JSON object containing:
- is_spam: boolean (true if spam, false if not)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- explanation: string (one sentence explaining the decision)

Author: %s
Email domain: %s
Post: %s
Comment:
"""
%s
"""

Respond only with the JSON object and nothing else.`

// ReviewResponse is the JSON object the models are asked to return
type ReviewResponse struct {
	IsSpam      bool    `json:"is_spam"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// FormatReviewPrompt builds the user prompt for a comment. content should
// already be truncated and sanitized. Only the email domain is sent.
func FormatReviewPrompt(comment *core.Comment, content string) string {
	author := comment.AuthorName
	if author == "" {
		author = "(anonymous)"
	}
	domain := "(none)"
	if at := strings.LastIndex(comment.AuthorEmail, "@"); at >= 0 {
		domain = strings.TrimSuffix(comment.AuthorEmail[at+1:], ">")
	}
	post := comment.PostID
	if post == "" {
		post = "(unknown)"
	}
	return fmt.Sprintf(reviewPromptFormat, author, domain, post, content)
}

// ParseReviewResponse decodes a model reply, tolerating text around the JSON
func ParseReviewResponse(text string) (*ReviewResponse, error) {
	var resp ReviewResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		obj, ok := ExtractJSONObject(text)
		if !ok {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(obj), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	if resp.Confidence < 0 {
		resp.Confidence = 0
	} else if resp.Confidence > 1 {
		resp.Confidence = 1
	}
	return &resp, nil
}

// ToReview converts the response into a core review. An empty processingID
// gets a generated one.
func (r *ReviewResponse) ToReview(model, processingID string) *core.Review {
	if processingID == "" {
		processingID = uuid.NewString()
	}
	return &core.Review{
		IsSpam:       r.IsSpam,
		Confidence:   r.Confidence,
		Explanation:  r.Explanation,
		ModelUsed:    model,
		ReviewedAt:   time.Now(),
		ProcessingID: processingID,
	}
}
