package factory

import (
	"fmt"
	"os"

	"github.com/mikey/comment-spam-guard/internal/adapters/filter"
	"github.com/mikey/comment-spam-guard/internal/config"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/ports"
	"go.uber.org/zap"
)

// FilterFactory creates comment filters based on configuration
type FilterFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *core.ModerationService
	blocklist *core.BlocklistService
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.ModerationService, blocklist *core.BlocklistService) *FilterFactory {
	return &FilterFactory{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		blocklist: blocklist,
	}
}

// CreateCommentFilter creates a comment filter based on the configuration
func (f *FilterFactory) CreateCommentFilter() (ports.CommentFilter, error) {
	filterType := f.cfg.GetString("server.filter_type")

	switch filterType {
	case "http":
		related := f.cfg.GetRelated()
		return filter.NewHTTPFilter(
			f.service,
			f.blocklist,
			core.RelatedWeights{
				Tag:       related.TagWeight,
				Category:  related.CategoryWeight,
				TitleTerm: related.TitleTermWeight,
			},
			related.Limit,
			f.logger,
			f.cfg.GetServer(),
		), nil
	case "cli":
		return filter.NewCliFilter(
			f.service,
			f.blocklist,
			f.logger,
			os.Stdout,
			f.cfg.GetBool("cli.verbose"),
			f.cfg.GetBool("cli.json_output"),
		), nil
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", filterType)
	}
}
