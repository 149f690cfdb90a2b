package ports

import (
	"github.com/mikey/comment-spam-guard/internal/core"
)

// Store is a storage backend holding both the stored blocklist and the comment history
type Store interface {
	core.BlocklistStore
	core.CommentHistoryStore

	// Stop stops background cleanup and releases connections
	Stop()
}
