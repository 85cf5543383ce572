package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config is parsed from PLANNER_ prefixed environment variables.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	StoreDriver       string `envconfig:"STORE_DRIVER" default:"memory"`
	PostgresURL       string `envconfig:"POSTGRES_URL" default:""`
	RedisAddr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB           int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix       string `envconfig:"REDIS_PREFIX" default:"planner:"`
	StorageQuotaBytes int    `envconfig:"STORAGE_QUOTA_BYTES" default:"5242880"`

	AIProvider   string        `envconfig:"AI_PROVIDER" default:"gemini"`
	GeminiAPIKey string        `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel  string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	OpenAIAPIKey string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel  string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults normalizes enum values and rejects unsupported ones.
func (c *Config) ResolveDefaults() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver == "" {
		c.StoreDriver = StoreMemory
	}
	switch c.StoreDriver {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_URL")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	c.AIProvider = strings.ToLower(strings.TrimSpace(c.AIProvider))
	if c.AIProvider == "" {
		c.AIProvider = ProviderGemini
	}
	if c.AIProvider != ProviderGemini && c.AIProvider != ProviderOpenAI {
		return fmt.Errorf("unsupported AI_PROVIDER: %s", c.AIProvider)
	}

	if c.AITimeout <= 0 {
		c.AITimeout = 60 * time.Second
	}
	if c.StorageQuotaBytes < 0 {
		c.StorageQuotaBytes = 0
	}
	return nil
}

// APIKey returns the credential of the selected provider, possibly empty.
func (c *Config) APIKey() string {
	if c.AIProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// New loads an optional .env file, then parses and validates the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("PLANNER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("port", cfg.Port).
		Str("store_driver", cfg.StoreDriver).
		Bool("postgres_url_present", cfg.PostgresURL != "").
		Str("redis_addr", cfg.RedisAddr).
		Int("storage_quota_bytes", cfg.StorageQuotaBytes).
		Str("ai_provider", cfg.AIProvider).
		Bool("ai_key_present", cfg.APIKey() != "").
		Dur("ai_timeout", cfg.AITimeout).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns an in-memory, unconfigured-AI config.
func NewForTesting() *Config {
	return &Config{
		Port:              "0",
		StoreDriver:       StoreMemory,
		StorageQuotaBytes: 5 << 20,
		AIProvider:        ProviderGemini,
		GeminiModel:       "gemini-1.5-flash",
		OpenAIModel:       "gpt-4o-mini",
		AITimeout:         5 * time.Second,
		AllowedOrigins:    []string{"*"},
		LogLevel:          "debug",
	}
}

func (c *Config) HTTPAddr() string {
	return ":" + c.Port
}
