// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config loads the registry API settings from the environment.

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Values are read once at startup through caarlos0/env and passed down by
constructor; nothing reads the environment after [Load].
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the registry API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis): verification tokens and resend throttling
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Email confirmation
	PublicBaseURL      string        `env:"PUBLIC_BASE_URL"       envDefault:"http://localhost:8080"`
	VerifyTokenTTL     time.Duration `env:"VERIFY_TOKEN_TTL"      envDefault:"24h"`
	ResendConfirmDelay time.Duration `env:"RESEND_CONFIRM_DELAY"  envDefault:"60s"`

	// Profile cache
	ProfileCacheSize int `env:"PROFILE_CACHE_SIZE" envDefault:"1024"`

	// Role given to self-registered accounts
	DefaultRoleID int `env:"DEFAULT_ROLE_ID" envDefault:"2"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config].
//
// It fails if a required variable is missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.ProfileCacheSize <= 0 {
		return nil, fmt.Errorf("config: PROFILE_CACHE_SIZE must be positive, got %d", cfg.ProfileCacheSize)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
