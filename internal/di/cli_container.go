package di

import (
	"flag"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/comment-spam-guard/internal/adapters/filter"
	"github.com/mikey/comment-spam-guard/internal/config"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Comment flags
	InputFile   string
	PostID      string
	AuthorID    string
	AuthorName  string
	AuthorEmail string
	IPAddress   string

	// Blocklist administration
	ListWords  bool
	AddWord    string
	RemoveWord string

	// Store flags
	StoreType  string
	SQLitePath string
	StoreURL   string

	// LLM review flags
	Review       bool
	Provider     string
	GeminiAPIKey string
	OpenAIAPIKey string
	BedrockModel string

	// Output flags
	Verbose    bool
	JSONLog    bool
	JSONOutput bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) *CLIFlags {
	flags := &CLIFlags{}

	fs.StringVar(&flags.InputFile, "file", "", "File containing the comment body (stdin if not specified)")
	fs.StringVar(&flags.PostID, "post-id", "", "Post the comment belongs to")
	fs.StringVar(&flags.AuthorID, "author-id", "", "Comment author ID, enables rate limiting")
	fs.StringVar(&flags.AuthorName, "author-name", "", "Comment author display name")
	fs.StringVar(&flags.AuthorEmail, "author-email", "", "Comment author email")
	fs.StringVar(&flags.IPAddress, "ip", "", "Comment author IP address")

	fs.BoolVar(&flags.ListWords, "list-words", false, "List the stored and effective blocklist and exit")
	fs.StringVar(&flags.AddWord, "add-word", "", "Add a word to the stored blocklist and exit")
	fs.StringVar(&flags.RemoveWord, "remove-word", "", "Remove a word from the stored blocklist and exit")

	fs.StringVar(&flags.StoreType, "store", "memory", "Store type (memory, sqlite, mysql, postgres, redis)")
	fs.StringVar(&flags.SQLitePath, "sqlite-path", "./comment_guard.db", "SQLite database path")
	fs.StringVar(&flags.StoreURL, "store-url", "", "DSN or URL for the mysql, postgres or redis store")

	fs.BoolVar(&flags.Review, "review", false, "Ask an LLM for a second opinion on borderline comments")
	fs.StringVar(&flags.Provider, "provider", "bedrock", "LLM provider (bedrock, gemini, openai)")
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.BedrockModel, "bedrock-model", "", "Bedrock model ID")

	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.BoolVar(&flags.JSONOutput, "json", false, "Print results as JSON")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	fs.Parse(args)
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	// Register CLI filter
	if err := container.Provide(func(
		service *core.ModerationService,
		blocklist *core.BlocklistService,
		logger *zap.Logger,
		flags *CLIFlags,
	) *filter.CliFilter {
		return filter.NewCliFilter(service, blocklist, logger, os.Stdout, flags.Verbose, flags.JSONOutput)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("server.filter_type", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("cli.json_output", flags.JSONOutput)

	// Store
	v.Set("store.type", flags.StoreType)
	v.Set("store.cleanup_frequency", 0)
	switch flags.StoreType {
	case "sqlite":
		v.Set("store.sqlite_path", flags.SQLitePath)
	case "mysql":
		if flags.StoreURL != "" {
			v.Set("store.mysql_dsn", flags.StoreURL)
		}
	case "postgres":
		if flags.StoreURL != "" {
			v.Set("store.postgres_url", flags.StoreURL)
		}
	case "redis":
		if flags.StoreURL != "" {
			v.Set("store.redis_url", flags.StoreURL)
		}
	}

	// LLM review
	v.Set("review.enabled", flags.Review)
	v.Set("llm.provider", flags.Provider)
	switch flags.Provider {
	case "bedrock":
		if flags.BedrockModel != "" {
			v.Set("bedrock.model_id", flags.BedrockModel)
		}
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
	}

	return config.NewFromViper(v)
}
