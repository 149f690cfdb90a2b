package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counts every comment run through the spam evaluator.
var CommentsChecked = promauto.NewCounter(prometheus.CounterOpts{
	Name: "comment_guard_comments_checked_total",
	Help: "Total number of comments evaluated for spam",
})

// Counts comments whose score reached the spam threshold.
var CommentsFlagged = promauto.NewCounter(prometheus.CounterOpts{
	Name: "comment_guard_comments_flagged_total",
	Help: "Total number of comments flagged as spam",
})

// Tracks which rules fire, labelled by rule name.
var RuleTriggers = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "comment_guard_rule_triggers_total",
		Help: "Number of times each spam rule triggered",
	},
	[]string{"rule"},
)

// Counts moderation outcomes by resulting status.
var ModerationDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "comment_guard_moderation_decisions_total",
		Help: "Number of moderation decisions by status",
	},
	[]string{"status"},
)

var (
	BlocklistReadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comment_guard_blocklist_read_failures_total",
		Help: "Number of times the stored blocklist could not be read",
	})

	HistoryReadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comment_guard_history_read_failures_total",
		Help: "Number of failed recent-comment lookups",
	})

	ReviewRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comment_guard_review_requests_total",
		Help: "Total number of comments sent for LLM review",
	})

	ReviewFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comment_guard_review_failures_total",
		Help: "Total number of failed LLM review requests",
	})

	CheckLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comment_guard_check_latency_seconds",
		Help:    "Time taken to evaluate a comment",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	})
)
