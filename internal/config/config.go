// Package config loads application configuration from a YAML file or from
// TORII_* environment variables. There is exactly one source of truth for
// each setting and secrets are never compiled in.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/toriiauth/torii/internal/auth"
)

// Config represents the application configuration
type Config struct {
	Auth  AuthConfig  `yaml:"auth"`
	Store StoreConfig `yaml:"store"`
	API   APIConfig   `yaml:"api"`
}

// Duration is a time.Duration that unmarshals from strings like "24h"
// in both YAML and environment variables
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler (used by env.Parse)
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// AuthConfig configures the Firebase Auth integration
type AuthConfig struct {
	ProjectID   string   `yaml:"project_id" env:"TORII_AUTH_PROJECT_ID"`
	Credentials string   `yaml:"credentials" env:"TORII_AUTH_CREDENTIALS"`
	SessionTTL  Duration `yaml:"session_ttl" env:"TORII_AUTH_SESSION_TTL" envDefault:"336h"`
	FreshWindow Duration `yaml:"fresh_window" env:"TORII_AUTH_FRESH_WINDOW" envDefault:"5m"`
}

// StoreConfig configures the Firestore client
type StoreConfig struct {
	ProjectID   string `yaml:"project_id" env:"TORII_STORE_PROJECT_ID"`
	Database    string `yaml:"database" env:"TORII_STORE_DATABASE"`
	Credentials string `yaml:"credentials" env:"TORII_STORE_CREDENTIALS"`
}

// APIConfig configures the HTTP server
type APIConfig struct {
	Addr        string   `yaml:"addr" env:"TORII_API_ADDR" envDefault:":8080"`
	CORSOrigins []string `yaml:"cors_origins" env:"TORII_CORS_ORIGINS" envSeparator:","`
	Environment string   `yaml:"environment" env:"TORII_ENV" envDefault:"development"`
}

// Load reads configuration from the specified YAML file. An empty path
// delegates to LoadFromEnv. Environment variables override file values:
//   - TORII_AUTH_PROJECT_ID overrides auth.project_id
//   - TORII_STORE_PROJECT_ID overrides store.project_id
//   - TORII_API_ADDR overrides api.addr
//   - TORII_ENV overrides api.environment
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromEnv()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Apply environment variable overrides
	if v := os.Getenv("TORII_AUTH_PROJECT_ID"); v != "" {
		cfg.Auth.ProjectID = v
	}
	if v := os.Getenv("TORII_STORE_PROJECT_ID"); v != "" {
		cfg.Store.ProjectID = v
	}
	if v := os.Getenv("TORII_API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	if v := os.Getenv("TORII_ENV"); v != "" {
		cfg.API.Environment = v
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv builds configuration entirely from environment variables
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in values the YAML path may leave zero
func (c *Config) applyDefaults() {
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = Duration(14 * 24 * time.Hour)
	}
	if c.Auth.FreshWindow == 0 {
		c.Auth.FreshWindow = Duration(5 * time.Minute)
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	if c.API.Environment == "" {
		c.API.Environment = "development"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Auth.ProjectID == "" {
		return fmt.Errorf("auth.project_id is required")
	}

	if c.Auth.SessionTTL.Std() < auth.MinSessionTTL || c.Auth.SessionTTL.Std() > auth.MaxSessionTTL {
		return fmt.Errorf("auth.session_ttl %v outside allowed range [%v, %v]",
			c.Auth.SessionTTL.Std(), auth.MinSessionTTL, auth.MaxSessionTTL)
	}

	if c.Auth.FreshWindow <= 0 {
		return fmt.Errorf("auth.fresh_window must be positive")
	}

	if c.Store.ProjectID == "" {
		return fmt.Errorf("store.project_id is required")
	}

	switch c.API.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("api.environment %q is not supported (supported: development, production)", c.API.Environment)
	}

	return nil
}

// Production reports whether the deployment environment is production.
// Session cookies are marked Secure only in production.
func (c *Config) Production() bool {
	return c.API.Environment == "production"
}
