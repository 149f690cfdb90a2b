package core

import (
	"time"
)

// SpamThreshold is the score at which a comment is considered spam
const SpamThreshold = 50

// SpamCheckInput is a candidate comment plus what is known about its author.
// Empty strings mean the value is absent.
type SpamCheckInput struct {
	Content     string `json:"content"`
	AuthorEmail string `json:"author_email,omitempty"`
	AuthorID    string `json:"author_id,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
}

// SpamCheckResult represents the outcome of the spam rules
type SpamCheckResult struct {
	IsSpam  bool     `json:"is_spam"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// CommentStatus is the visibility state a comment is stored with
type CommentStatus string

const (
	StatusApproved CommentStatus = "approved"
	StatusHeld     CommentStatus = "held"
)

// Comment is a submitted blog comment
type Comment struct {
	PostID      string `json:"post_id,omitempty"`
	AuthorID    string `json:"author_id,omitempty"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorEmail string `json:"author_email,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	Content     string `json:"content"`
}

// Input converts the comment into the evaluator's input
func (c *Comment) Input() SpamCheckInput {
	return SpamCheckInput{
		Content:     c.Content,
		AuthorEmail: c.AuthorEmail,
		AuthorID:    c.AuthorID,
		IPAddress:   c.IPAddress,
	}
}

// Review is a second opinion on a comment from an LLM
type Review struct {
	IsSpam       bool      `json:"is_spam"`
	Confidence   float64   `json:"confidence"`
	Explanation  string    `json:"explanation"`
	ModelUsed    string    `json:"model_used"`
	ReviewedAt   time.Time `json:"reviewed_at"`
	ProcessingID string    `json:"processing_id,omitempty"`
}

// ModerationDecision is what the submission handler needs to persist a comment
type ModerationDecision struct {
	Status  CommentStatus    `json:"status"`
	Content string           `json:"content"`
	Result  *SpamCheckResult `json:"result"`
	Review  *Review          `json:"review,omitempty"`
	Trusted bool             `json:"trusted"`
}

// Post is the subset of a blog post needed to rank related posts
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"published_at"`
}

// RelatedPost is a candidate post with its relatedness score
type RelatedPost struct {
	Post  Post `json:"post"`
	Score int  `json:"score"`
}
