package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for askql-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values for fields
// that support both. Secrets (passwords, API keys) must only come from
// environment variables.
//
// The loaded struct is passed explicitly into constructors; no component
// reads ambient environment state, which keeps unit tests deterministic.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// AI generation backend configuration
	AI AIConfig `yaml:"ai"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"askql"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"askql_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// AIConfig holds the generation backend settings. An empty endpoint or
// key leaves the engine in deterministic fallback mode rather than
// failing at startup.
type AIConfig struct {
	Endpoint       string  `yaml:"endpoint" env:"AI_ENDPOINT" env-default:""`
	APIKey         string  `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
	Model          string  `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o-mini"`
	Temperature    float64 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.1"`
	MaxTokens      int     `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"400"`
	TimeoutSeconds int     `yaml:"timeout_seconds" env:"AI_TIMEOUT_SECONDS" env-default:"30"`
}

// Timeout returns the per-call generation deadline as a duration.
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IsConfigured returns true if a real generation backend is set up.
func (c *AIConfig) IsConfigured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on
// the returned Config. Secrets (PGPASSWORD, AI_API_KEY) must come from
// environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
