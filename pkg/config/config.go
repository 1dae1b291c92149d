package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for leadscope-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (API keys, database password) must only come from environment variables.
type Config struct {
	Env string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// LinkedIn data-API configuration
	LinkedIn LinkedInConfig `yaml:"linkedin"`

	// LLM scoring configuration
	LLM LLMConfig `yaml:"llm"`

	// Scoring defaults applied when a radar doesn't override them
	Scoring ScoringConfig `yaml:"scoring"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"leadscope"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"leadscope_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// ConnectionString returns a keyword/value PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns the postgres:// form of the connection string, which the
// migration tooling requires.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password),
		c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Credential is one RapidAPI key/host pair participating in rotation.
type Credential struct {
	APIKey  string `yaml:"-" env:"-"`
	APIHost string `yaml:"-" env:"-"`
	Enabled bool   `yaml:"-" env:"-"`
}

// LinkedInConfig holds the data-API endpoint and credential pool.
type LinkedInConfig struct {
	BaseURL string `yaml:"base_url" env:"LINKEDIN_API_BASE_URL" env-default:"https://linkedin-scraper-api-real-time-fast-affordable.p.rapidapi.com"`
	APIHost string `yaml:"api_host" env:"LINKEDIN_API_HOST" env-default:"linkedin-scraper-api-real-time-fast-affordable.p.rapidapi.com"`

	// APIKeysStr is a comma-separated list of API keys. A key prefixed
	// with '!' is configured but disabled and excluded from rotation.
	APIKeysStr string `yaml:"-" env:"LINKEDIN_API_KEYS"` // Secret - not in YAML

	// Credentials is parsed from APIKeysStr (not from config file).
	Credentials []Credential `yaml:"-"`

	TimeoutSeconds int `yaml:"timeout_seconds" env:"LINKEDIN_TIMEOUT_SECONDS" env-default:"30"`
	MaxRetries     int `yaml:"max_retries" env:"LINKEDIN_MAX_RETRIES" env-default:"3"`

	// RequestDelayMillis is the pacing delay between consecutive outbound
	// calls within one radar run.
	RequestDelayMillis int `yaml:"request_delay_millis" env:"LINKEDIN_REQUEST_DELAY_MILLIS" env-default:"500"`
}

// EnabledCredentials returns only the credentials participating in rotation.
func (c *LinkedInConfig) EnabledCredentials() []Credential {
	enabled := make([]Credential, 0, len(c.Credentials))
	for _, cred := range c.Credentials {
		if cred.Enabled {
			enabled = append(enabled, cred)
		}
	}
	return enabled
}

// LLMConfig holds language-model settings for scoring and messaging.
type LLMConfig struct {
	// Provider selects the chat-completion backend: "openai" or "anthropic".
	Provider    string  `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Enabled     bool    `yaml:"enabled" env:"LLM_ENABLED" env-default:"true"`
	Endpoint    string  `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model       string  `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	Temperature float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.3"`
	MaxTokens   int     `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1000"`
	APIKey      string  `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// ScoringConfig holds pipeline-wide scoring defaults.
type ScoringConfig struct {
	// MinScoreThreshold is the default qualification cutoff for radars
	// that don't set their own.
	MinScoreThreshold float64 `yaml:"min_score_threshold" env:"SCORING_MIN_THRESHOLD" env-default:"0.6"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. Missing config.yaml is not an error; env vars and defaults
// apply on their own.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.parseComplexFields()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() {
	c.LinkedIn.Credentials = parseCredentials(c.LinkedIn.APIKeysStr, c.LinkedIn.APIHost)
}

// Validate checks configuration consistency that cleanenv tags can't express.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("invalid llm provider %q (want openai or anthropic)", c.LLM.Provider)
	}

	if c.Scoring.MinScoreThreshold < 0 || c.Scoring.MinScoreThreshold > 1 {
		return fmt.Errorf("min_score_threshold must be in [0,1], got %f", c.Scoring.MinScoreThreshold)
	}

	return nil
}

// parseCredentials parses the API key list into credential pairs.
// Format: "key1,key2,!disabledkey3" - all keys share the configured host.
func parseCredentials(value, host string) []Credential {
	if value == "" {
		return nil
	}

	var creds []Credential
	for _, raw := range strings.Split(value, ",") {
		key := strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		enabled := true
		if strings.HasPrefix(key, "!") {
			enabled = false
			key = strings.TrimPrefix(key, "!")
		}
		creds = append(creds, Credential{
			APIKey:  key,
			APIHost: host,
			Enabled: enabled,
		})
	}
	return creds
}
