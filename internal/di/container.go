package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/comment-spam-guard/internal/config"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/factory"
	"github.com/mikey/comment-spam-guard/internal/logging"
	"github.com/mikey/comment-spam-guard/internal/ports"
	"github.com/mikey/comment-spam-guard/internal/utils"
	"github.com/mikey/comment-spam-guard/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	// Register comment filter
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FilterFactory) (ports.CommentFilter, error) {
		return f.CreateCommentFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideServices registers everything between the config/logger and the filters
func provideServices(container *dig.Container) error {
	providers := []interface{}{
		utils.NewTextProcessor,
		core.NewRuleSetFromConfig,
		factory.NewStoreFactory,
		factory.NewReviewerFactory,

		// Store
		func(f *factory.StoreFactory) (ports.Store, error) {
			return f.CreateStore()
		},
		func(s ports.Store) core.BlocklistStore { return s },
		func(s ports.Store) core.CommentHistoryStore { return s },

		// LLM reviewer, nil when review is disabled
		func(f *factory.ReviewerFactory) (core.CommentReviewer, error) {
			return f.CreateReviewer()
		},

		// Trusted author domains
		func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
			domains := cfg.GetSpamRules().WhitelistedDomains
			if len(domains) > 0 {
				logger.Info("Loaded whitelisted domains", zap.Strings("domains", domains))
			}
			return whitelist.NewChecker(domains, logger)
		},

		func(cfg *config.Config) core.ReviewPolicy {
			rc := cfg.GetReview()
			return core.ReviewPolicy{
				Enabled:       rc.Enabled,
				Threshold:     rc.Threshold,
				MinConfidence: rc.MinConfidence,
				Timeout:       rc.Timeout,
			}
		},

		core.NewSpamEvaluator,
		core.NewModerationService,
		core.NewBlocklistService,
	}

	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return err
		}
	}
	return nil
}
