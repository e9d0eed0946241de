// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// minProductionSecretLen is the shortest JWT secret accepted in production.
const minProductionSecretLen = 32

// ErrWeakSecret is returned when JWT_SECRET is too short for production use.
var ErrWeakSecret = errors.New("JWT_SECRET must be at least 32 bytes in production")

// Config holds all application configuration.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"3000"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Cache (Redis). Empty disables rate limiting.
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Token signing and the static demo claims
	JWTSecret    string        `env:"JWT_SECRET,required,notEmpty"`
	TokenSubject string        `env:"TOKEN_SUBJECT" envDefault:"b@b.com"`
	TokenCompany string        `env:"TOKEN_COMPANY" envDefault:"ACME"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Client credentials accepted by POST /authorize
	ClientID     string `env:"CLIENT_ID" envDefault:"foo"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"bar"`
	// Upper bound on secret hashes computed at once (each takes ~19 MiB)
	AuthorizeMaxConcurrent int `env:"AUTHORIZE_MAX_CONCURRENT" envDefault:"4"`

	// Serve static files from disk instead of the embedded copy.
	AssetsDir string `env:"ASSETS_DIR"`

	// Rate limiting for the credential exchange endpoint
	RateLimitAuthorizeEnabled bool `env:"RATE_LIMIT_AUTHORIZE_ENABLED" envDefault:"true"`
	RateLimitAuthorizeRPS     int  `env:"RATE_LIMIT_AUTHORIZE_RPS" envDefault:"5"`
	RateLimitAuthorizeBurst   int  `env:"RATE_LIMIT_AUTHORIZE_BURST" envDefault:"10"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RateLimitEnabled reports whether /authorize should be rate limited.
// Rate limiting needs Redis, so it is off when no REDIS_URL is configured.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitAuthorizeEnabled && c.RedisURL != ""
}

// Validate checks constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.IsProduction() && len(c.JWTSecret) < minProductionSecretLen {
		return ErrWeakSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.AuthorizeMaxConcurrent <= 0 {
		return fmt.Errorf("AUTHORIZE_MAX_CONCURRENT must be positive, got %d", c.AuthorizeMaxConcurrent)
	}
	// The token bucket divides by the rate and a zero burst rejects everything.
	if c.RateLimitEnabled() {
		if c.RateLimitAuthorizeRPS <= 0 {
			return fmt.Errorf("RATE_LIMIT_AUTHORIZE_RPS must be positive, got %d", c.RateLimitAuthorizeRPS)
		}
		if c.RateLimitAuthorizeBurst <= 0 {
			return fmt.Errorf("RATE_LIMIT_AUTHORIZE_BURST must be positive, got %d", c.RateLimitAuthorizeBurst)
		}
	}
	return nil
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
