package filter

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mikey/comment-spam-guard/internal/config"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// HTTPFilter exposes the moderation service as a JSON API
type HTTPFilter struct {
	service      *core.ModerationService
	blocklist    *core.BlocklistService
	weights      core.RelatedWeights
	relatedLimit int
	logger       *zap.Logger
	listenAddr   string
	adminToken   string
	app          *fiber.App
}

// NewHTTPFilter creates a new HTTP filter and registers its routes
func NewHTTPFilter(
	service *core.ModerationService,
	blocklist *core.BlocklistService,
	weights core.RelatedWeights,
	relatedLimit int,
	logger *zap.Logger,
	serverCfg config.ServerConfig,
) *HTTPFilter {
	f := &HTTPFilter{
		service:      service,
		blocklist:    blocklist,
		weights:      weights,
		relatedLimit: relatedLimit,
		logger:       logger,
		listenAddr:   serverCfg.ListenAddress,
		adminToken:   serverCfg.AdminToken,
	}

	f.app = fiber.New(fiber.Config{
		AppName:               "comment-guard",
		DisableStartupMessage: true,
		BodyLimit:             serverCfg.BodyLimit,
		ReadTimeout:           serverCfg.ReadTimeout,
		WriteTimeout:          serverCfg.WriteTimeout,
		ErrorHandler:          f.handleError,
	})
	f.app.Use(recover.New())
	f.registerRoutes()

	return f
}

// App returns the underlying fiber application
func (f *HTTPFilter) App() *fiber.App {
	return f.app
}

func (f *HTTPFilter) registerRoutes() {
	f.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})
	f.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := f.app.Group("/v1")

	v1.Post("/comments/check", f.checkComment)
	v1.Post("/comments/moderate", f.moderateComment)
	v1.Post("/comments/sanitize", f.sanitizeComment)
	v1.Post("/posts/related", f.relatedPosts)

	admin := v1.Group("/blocklist", f.requireAdmin)
	admin.Get("/", f.listWords)
	admin.Post("/", f.addWord)
	admin.Delete("/:word", f.removeWord)
}

// Start starts serving in the background
func (f *HTTPFilter) Start() error {
	f.logger.Info("HTTP comment filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.app.Listen(f.listenAddr); err != nil {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop drains in-flight requests and stops the server
func (f *HTTPFilter) Stop() error {
	return f.app.ShutdownWithTimeout(shutdownTimeout)
}

// ModerateComment moderates a comment without going through HTTP
func (f *HTTPFilter) ModerateComment(ctx context.Context, comment *core.Comment) (*core.ModerationDecision, error) {
	return f.service.ModerateComment(ctx, comment)
}

func (f *HTTPFilter) checkComment(c *fiber.Ctx) error {
	var input core.SpamCheckInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := f.service.CheckSpam(c.UserContext(), input)
	if err != nil {
		f.logger.Error("Spam check failed", zap.String("author_id", input.AuthorID), zap.Error(err))
		return fiber.NewError(fiber.StatusServiceUnavailable, "spam check unavailable")
	}
	return c.JSON(result)
}

func (f *HTTPFilter) moderateComment(c *fiber.Ctx) error {
	var comment core.Comment
	if err := c.BodyParser(&comment); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	decision, err := f.service.ModerateComment(c.UserContext(), &comment)
	if err != nil {
		f.logger.Error("Moderation failed", zap.String("post_id", comment.PostID), zap.Error(err))
		return fiber.NewError(fiber.StatusServiceUnavailable, "moderation unavailable")
	}
	return c.JSON(decision)
}

type sanitizeRequest struct {
	Content string `json:"content"`
}

func (f *HTTPFilter) sanitizeComment(c *fiber.Ctx) error {
	var req sanitizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return c.JSON(fiber.Map{"content": core.SanitizeContent(req.Content)})
}

type relatedRequest struct {
	Target     core.Post   `json:"target"`
	Candidates []core.Post `json:"candidates"`
	Limit      int         `json:"limit,omitempty"`
}

func (f *HTTPFilter) relatedPosts(c *fiber.Ctx) error {
	var req relatedRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Target.ID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "target.id is required")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = f.relatedLimit
	}
	return c.JSON(fiber.Map{
		"related": core.RankRelatedPosts(req.Target, req.Candidates, f.weights, limit),
	})
}

type wordRequest struct {
	Word string `json:"word"`
}

func (f *HTTPFilter) listWords(c *fiber.Ctx) error {
	stored, err := f.blocklist.Stored(c.UserContext())
	if err != nil {
		f.logger.Error("Failed to list blocked words", zap.Error(err))
		return fiber.NewError(fiber.StatusServiceUnavailable, "blocklist unavailable")
	}
	return c.JSON(fiber.Map{
		"stored":    stored,
		"effective": f.blocklist.Effective(c.UserContext()),
	})
}

func (f *HTTPFilter) addWord(c *fiber.Ctx) error {
	var req wordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	word, err := f.blocklist.Add(c.UserContext(), req.Word)
	if err != nil {
		return f.blocklistError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"word": word})
}

func (f *HTTPFilter) removeWord(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("word"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid word")
	}

	word, err := f.blocklist.Remove(c.UserContext(), raw)
	if err != nil {
		return f.blocklistError(err)
	}
	return c.JSON(fiber.Map{"word": word})
}

func (f *HTTPFilter) blocklistError(err error) error {
	if errors.Is(err, core.ErrEmptyWord) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	f.logger.Error("Blocklist update failed", zap.Error(err))
	return fiber.NewError(fiber.StatusServiceUnavailable, "blocklist unavailable")
}

// requireAdmin checks the bearer token when an admin token is configured
func (f *HTTPFilter) requireAdmin(c *fiber.Ctx) error {
	if f.adminToken == "" {
		return c.Next()
	}

	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(f.adminToken)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid admin token")
	}
	return c.Next()
}

func (f *HTTPFilter) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusInternalServerError {
		f.logger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
