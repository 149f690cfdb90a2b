package config

import "time"

// ServerConfig represents the configuration for the HTTP comment filter
type ServerConfig struct {
	FilterType    string
	ListenAddress string
	AdminToken    string
	BodyLimit     int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// SpamRulesConfig holds the tunable rule data used by the spam evaluator
type SpamRulesConfig struct {
	BlockedWords           []string
	ShortenerDomains       []string
	SuspiciousTLDs         []string
	DisposableEmailDomains []string
	RateWindow             time.Duration
	RateLimit              int
	WhitelistedDomains     []string
}

// ReviewConfig controls the optional LLM second opinion
type ReviewConfig struct {
	Enabled       bool
	Threshold     int
	MinConfidence float64
	Timeout       time.Duration
}

// StoreConfig represents the configuration of the blocklist and history store
type StoreConfig struct {
	Type             string
	HistoryRetention time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	PostgresURL      string
	RedisURL         string
}

// RelatedConfig holds the weights used to rank related posts
type RelatedConfig struct {
	TagWeight       int
	CategoryWeight  int
	TitleTermWeight int
	Limit           int
}

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:    c.GetString("server.filter_type"),
		ListenAddress: c.GetString("server.listen_address"),
		AdminToken:    c.GetString("server.admin_token"),
		BodyLimit:     c.GetInt("server.body_limit"),
		ReadTimeout:   c.v.GetDuration("server.read_timeout"),
		WriteTimeout:  c.v.GetDuration("server.write_timeout"),
	}
}

// GetSpamRules returns the spam rule configuration
func (c *Config) GetSpamRules() SpamRulesConfig {
	return SpamRulesConfig{
		BlockedWords:           c.GetStringSlice("spam.blocked_words"),
		ShortenerDomains:       c.GetStringSlice("spam.shortener_domains"),
		SuspiciousTLDs:         c.GetStringSlice("spam.suspicious_tlds"),
		DisposableEmailDomains: c.GetStringSlice("spam.disposable_email_domains"),
		RateWindow:             c.v.GetDuration("spam.rate_window"),
		RateLimit:              c.GetInt("spam.rate_limit"),
		WhitelistedDomains:     c.GetStringSlice("spam.whitelisted_domains"),
	}
}

// GetReview returns the LLM review configuration
func (c *Config) GetReview() ReviewConfig {
	return ReviewConfig{
		Enabled:       c.GetBool("review.enabled"),
		Threshold:     c.GetInt("review.threshold"),
		MinConfidence: c.GetFloat64("review.min_confidence"),
		Timeout:       c.v.GetDuration("review.timeout"),
	}
}

// GetStore returns the store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:             c.GetString("store.type"),
		HistoryRetention: c.v.GetDuration("store.history_retention"),
		CleanupFrequency: c.v.GetDuration("store.cleanup_frequency"),
		SQLitePath:       c.GetString("store.sqlite_path"),
		MySQLDSN:         c.GetString("store.mysql_dsn"),
		PostgresURL:      c.GetString("store.postgres_url"),
		RedisURL:         c.GetString("store.redis_url"),
	}
}

// GetRelated returns the related posts configuration
func (c *Config) GetRelated() RelatedConfig {
	return RelatedConfig{
		TagWeight:       c.GetInt("related.tag_weight"),
		CategoryWeight:  c.GetInt("related.category_weight"),
		TitleTermWeight: c.GetInt("related.title_term_weight"),
		Limit:           c.GetInt("related.limit"),
	}
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}
