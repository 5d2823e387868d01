// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded configuration for missing or inconsistent values.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateTMDB,
		c.validateOpenAI,
		c.validateSync,
		c.validateServer,
		c.validateAPI,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DATABASE_PATH is required when DATABASE_DRIVER is duckdb")
		}
	case "pgx", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when DATABASE_DRIVER is %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be duckdb or pgx, got %q", c.Database.Driver)
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	if len(c.Database.Categories) == 0 {
		return fmt.Errorf("MOVIE_CATEGORIES must name at least one category")
	}
	seen := make(map[string]struct{}, len(c.Database.Categories))
	for _, name := range c.Database.Categories {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("MOVIE_CATEGORIES contains an empty name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("MOVIE_CATEGORIES contains duplicate %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if err := validateHTTPURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must be positive")
	}
	if c.TMDB.Burst < 1 {
		return fmt.Errorf("TMDB_BURST must be at least 1")
	}
	return nil
}

// OpenAI settings are only checked for shape. A missing key disables
// review generation rather than failing startup.
func (c *Config) validateOpenAI() error {
	if err := validateHTTPURL(c.OpenAI.BaseURL, "OPENAI_BASE_URL"); err != nil {
		return err
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("OPENAI_MODEL is required")
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2")
	}
	if c.OpenAI.MaxTokens < 1 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be at least 1")
	}
	if c.OpenAI.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Pages < 1 {
		return fmt.Errorf("SYNC_PAGES must be at least 1")
	}
	if c.Sync.PageDelay < 0 {
		return fmt.Errorf("SYNC_PAGE_DELAY must not be negative")
	}
	if c.Sync.BatchSize < 1 {
		return fmt.Errorf("SYNC_BATCH_SIZE must be at least 1")
	}
	if c.Sync.BatchPause < 0 {
		return fmt.Errorf("SYNC_BATCH_PAUSE must not be negative")
	}
	if c.Sync.Cap < 1 {
		return fmt.Errorf("SYNC_CAP must be at least 1")
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("SYNC_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.SyncTimeout <= 0 {
		return fmt.Errorf("SYNC_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.PageSize < 1 || c.API.PageSize > 100 {
		return fmt.Errorf("API_PAGE_SIZE must be between 1 and 100, got %d", c.API.PageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters when set")
	}
	if c.Security.JWTSecret != "" && c.Security.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.Server.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "off":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL requires an http(s) scheme and a host. Paths are allowed
// since API bases carry a version prefix.
func validateHTTPURL(rawURL, field string) error {
	if rawURL == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}
