// Copyright (c) 2026 Souq. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/souqhq/souq/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the Souq API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// JWTSecret is the symmetric HS256 signing secret for both token classes.
	JWTSecret string `env:"JWT_SECRET,required"`

	// JWTAccessExpiry is the access-token lifetime in seconds.
	JWTAccessExpiry int `env:"JWT_ACCESS_EXPIRY"  envDefault:"900"`

	// JWTRefreshExpiry is the refresh-token lifetime in seconds.
	JWTRefreshExpiry int `env:"JWT_REFRESH_EXPIRY" envDefault:"2592000"`

	// CatalogCacheTTL is how long public catalog responses are cached in Redis.
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"60s"`

	// ExtraOrigins lists additional allowed CORS origins, comma-separated.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// AccessTokenTTL returns the configured access-token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWTAccessExpiry) * time.Second
}

// RefreshTokenTTL returns the configured refresh-token lifetime.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWTRefreshExpiry) * time.Second
}

// ExtraAllowedOrigins returns the additional CORS origins from EXTRA_ORIGINS.
func (c *Config) ExtraAllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
