package ports

import (
	"context"

	"github.com/mikey/comment-spam-guard/internal/core"
)

// CommentFilter is a transport in front of the moderation service
type CommentFilter interface {
	// ModerateComment checks a comment and decides whether it is published
	ModerateComment(ctx context.Context, comment *core.Comment) (*core.ModerationDecision, error)

	// Start starts the filter
	Start() error

	// Stop stops the filter
	Stop() error
}
