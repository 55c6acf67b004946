// Package config loads service configuration from the environment, with an
// optional .env file underneath.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/search"
)

// MaxQuestionsLimit is the hard upper bound on questions per request.
const MaxQuestionsLimit = quizgen.MaxQuestionsLimit

// Config is the process configuration, built once at startup and passed to
// the components that need it.
type Config struct {
	Port           int
	AllowedOrigins []string
	Debug          bool

	DefaultNumQuestions int
	MaxNumQuestions     int

	LogLevel  string
	LogFormat string

	// DBPath is the sqlite event log. Empty disables it.
	DBPath string

	LLM llm.Config

	// ValidatorModel is the model the answer validator runs on. It
	// defaults to the generation model.
	ValidatorModel string

	Search search.Config
	Redis  RedisConfig

	AgentMaxSteps         int
	ValidationConcurrency int
}

// RedisConfig points at the search cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 5000)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("DEFAULT_NUM_QUESTIONS", 3)
	v.SetDefault("MAX_NUM_QUESTIONS", MaxQuestionsLimit)
	v.SetDefault("DEBUG_MODE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	def := llm.DefaultConfig()
	v.SetDefault("LLM_PROVIDER", def.Provider)
	v.SetDefault("OPENAI_MODEL", def.OpenAI.Model)
	v.SetDefault("ANTHROPIC_MODEL", def.Anthropic.Model)
	v.SetDefault("GEMINI_MODEL", def.Gemini.Model)
	v.SetDefault("OPENROUTER_MODEL", def.OpenRouter.Model)
	v.SetDefault("LLM_TIMEOUT", def.Timeout)
	v.SetDefault("LLM_MAX_ATTEMPTS", def.Retry.MaxAttempts)
	v.SetDefault("LLM_CAPTURE_BODIES", false)

	sdef := search.DefaultConfig()
	v.SetDefault("SEARCH_PROVIDER", sdef.Provider)
	v.SetDefault("SEARCH_TIMEOUT", sdef.Timeout)
	v.SetDefault("SEARCH_MAX_RESULTS", sdef.MaxResults)
	v.SetDefault("SEARCH_CACHE_TTL", sdef.CacheTTL)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AGENT_MAX_STEPS", 8)
	v.SetDefault("VALIDATION_CONCURRENCY", 0)
}

// Load reads envFiles (".env" when none are given; missing files are
// skipped), then the process environment, and returns the configuration.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:                v.GetInt("PORT"),
		AllowedOrigins:      splitList(v.GetString("ALLOWED_ORIGINS")),
		Debug:               v.GetBool("DEBUG_MODE"),
		DefaultNumQuestions: v.GetInt("DEFAULT_NUM_QUESTIONS"),
		MaxNumQuestions:     v.GetInt("MAX_NUM_QUESTIONS"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		DBPath:              v.GetString("QUIZGEN_DB"),
		ValidatorModel:      v.GetString("VALIDATOR_OPENAI_MODEL"),
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		AgentMaxSteps:         v.GetInt("AGENT_MAX_STEPS"),
		ValidationConcurrency: v.GetInt("VALIDATION_CONCURRENCY"),
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	cfg.LLM = llm.DefaultConfig()
	cfg.LLM.Provider = strings.ToLower(v.GetString("LLM_PROVIDER"))
	cfg.LLM.OpenAI.APIKey = v.GetString("OPENAI_API_KEY")
	cfg.LLM.OpenAI.Model = v.GetString("OPENAI_MODEL")
	cfg.LLM.OpenAI.BaseURL = v.GetString("OPENAI_BASE_URL")
	cfg.LLM.Anthropic.APIKey = v.GetString("ANTHROPIC_API_KEY")
	cfg.LLM.Anthropic.Model = v.GetString("ANTHROPIC_MODEL")
	cfg.LLM.Gemini.APIKey = v.GetString("GEMINI_API_KEY")
	cfg.LLM.Gemini.Model = v.GetString("GEMINI_MODEL")
	cfg.LLM.OpenRouter.APIKey = v.GetString("OPENROUTER_API_KEY")
	cfg.LLM.OpenRouter.Model = v.GetString("OPENROUTER_MODEL")
	cfg.LLM.Timeout = v.GetDuration("LLM_TIMEOUT")
	cfg.LLM.Retry.MaxAttempts = v.GetInt("LLM_MAX_ATTEMPTS")
	cfg.LLM.CaptureBodies = v.GetBool("LLM_CAPTURE_BODIES")

	cfg.Search = search.Config{
		Provider:   strings.ToLower(v.GetString("SEARCH_PROVIDER")),
		APIKey:     v.GetString("GOOGLE_SEARCH_API_KEY"),
		EngineID:   v.GetString("GOOGLE_SEARCH_ENGINE_ID"),
		MaxResults: v.GetInt("SEARCH_MAX_RESULTS"),
		Timeout:    v.GetDuration("SEARCH_TIMEOUT"),
		CacheTTL:   v.GetDuration("SEARCH_CACHE_TTL"),
	}
	return cfg
}

// Validate checks ranges and that the selected backends have credentials.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.MaxNumQuestions < 1 || c.MaxNumQuestions > MaxQuestionsLimit {
		errs = append(errs, fmt.Errorf("MAX_NUM_QUESTIONS must be between 1 and %d, got %d", MaxQuestionsLimit, c.MaxNumQuestions))
	}
	if c.DefaultNumQuestions < 1 || c.DefaultNumQuestions > c.MaxNumQuestions {
		errs = append(errs, fmt.Errorf("DEFAULT_NUM_QUESTIONS must be between 1 and MAX_NUM_QUESTIONS, got %d", c.DefaultNumQuestions))
	}
	if c.AgentMaxSteps < 1 {
		errs = append(errs, fmt.Errorf("AGENT_MAX_STEPS must be at least 1, got %d", c.AgentMaxSteps))
	}
	if c.ValidationConcurrency < 0 {
		errs = append(errs, fmt.Errorf("VALIDATION_CONCURRENCY must not be negative, got %d", c.ValidationConcurrency))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Search.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidatorLLM returns the LLM configuration for answer validation.
func (c *Config) ValidatorLLM() llm.Config {
	return c.LLM.WithModel(c.ValidatorModel)
}

// NewRedisClient returns a client for the search cache, or nil when no
// address is configured.
func (c *Config) NewRedisClient() *redis.Client {
	if c.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
}

// Timeouts used by the HTTP server.
const (
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 15 * time.Second
)

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
