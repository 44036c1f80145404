// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

// Package config loads and validates service configuration.
//
// Precedence, lowest to highest: built-in defaults, environment fallbacks
// (DATABASE_URL, JWT_SECRET), YAML config file, command-line flags.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// DefaultSecret is the development-only signing secret. Production refuses
// to start with it.
const DefaultSecret = "demo-secret-key-change-in-production"

// Config is the full service configuration.
type Config struct {
	Environment string          `koanf:"environment"`
	Server      ServerConfig    `koanf:"server"`
	Database    DatabaseConfig  `koanf:"database"`
	Auth        AuthConfig      `koanf:"auth"`
	RateLimit   RateLimitConfig `koanf:"rate_limit"`
	Log         LogConfig       `koanf:"log"`
}

// ServerConfig holds the listener addresses.
type ServerConfig struct {
	Addr        string `koanf:"addr"`
	MetricsAddr string `koanf:"metrics_addr"`
}

// DatabaseConfig holds the database connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// AuthConfig holds token and password hashing settings.
type AuthConfig struct {
	Secret     string        `koanf:"secret"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`
}

// RateLimitConfig holds the per-client budget for the credential endpoints.
type RateLimitConfig struct {
	PerMinute int `koanf:"per_minute"`
	Burst     int `koanf:"burst"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Default returns the built-in defaults. The default secret only survives
// validation outside production.
func Default() Config {
	return Config{
		Environment: "development",
		Server: ServerConfig{
			Addr:        ":8080",
			MetricsAddr: "127.0.0.1:9100",
		},
		Auth: AuthConfig{
			Secret:   DefaultSecret,
			TokenTTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			PerMinute: 10,
			Burst:     10,
		},
		Log: LogConfig{
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, environment fallbacks, and flags. A nil flag set skips the flag
// layer.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	// Conventional deployment variables fill only the gaps the file and
	// flags left: an explicit auth.secret or database.url wins over the
	// environment.
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if env := os.Getenv("JWT_SECRET"); env != "" && !k.Exists("auth.secret") {
		cfg.Auth.Secret = env
	}

	return cfg, nil
}

// Validate checks the configuration for a runnable server.
//
// The default signing secret is rejected in production: a published default
// would let anyone mint valid tokens.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set database.url or DATABASE_URL)")
	}
	if c.Auth.Secret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("signing secret is required")
	}
	if c.IsProduction() && c.Auth.Secret == DefaultSecret {
		return oops.Code("CONFIG_INSECURE_SECRET").
			Errorf("the default signing secret is not allowed in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("token TTL must be positive")
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("rate limits must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
