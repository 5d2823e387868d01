// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package config loads Marquee configuration.
//
// Sources are layered with Koanf v2 (highest priority last):
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, then DefaultConfigPaths)
//  3. Environment variables (see envMappings)
//
// The loaded *Config is passed explicitly into every component constructor.
// Nothing reads configuration from globals at runtime.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Database    DatabaseConfig    `koanf:"database"`
	TMDB        TMDBConfig        `koanf:"tmdb"`
	OpenAI      OpenAIConfig      `koanf:"openai"`
	Sync        SyncConfig        `koanf:"sync"`
	ReviewCache ReviewCacheConfig `koanf:"review_cache"`
	Server      ServerConfig      `koanf:"server"`
	API         APIConfig         `koanf:"api"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// DatabaseConfig selects the store driver.
//
// Driver "duckdb" (default) opens Path as an embedded DuckDB file (":memory:" for
// an ephemeral store). Driver "pgx" connects to PostgreSQL using DSN.
type DatabaseConfig struct {
	Driver    string `koanf:"driver"`
	Path      string `koanf:"path"`
	DSN       string `koanf:"dsn"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	// Categories are seeded into the categories table at startup.
	Categories []string `koanf:"categories"`
}

// TMDBConfig configures the metadata source client.
type TMDBConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Language          string        `koanf:"language"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// OpenAIConfig configures the review completion backend.
type OpenAIConfig struct {
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`
}

// SyncConfig tunes the catalog synchronization job.
type SyncConfig struct {
	Pages      int           `koanf:"pages"`       // result pages fetched per category
	PageDelay  time.Duration `koanf:"page_delay"`  // wait after each page fetch
	BatchSize  int           `koanf:"batch_size"`  // concurrent detail tasks per group
	BatchPause time.Duration `koanf:"batch_pause"` // pause between groups
	Cap        int           `koanf:"cap"`         // movies kept per category

	// Interval enables the periodic scheduler when > 0.
	Interval  time.Duration `koanf:"interval"`
	OnStartup bool          `koanf:"on_startup"`
}

// ReviewCacheConfig configures the BadgerDB review cache.
// An empty Path keeps the cache in memory.
type ReviewCacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Path    string        `koanf:"path"`
	TTL     time.Duration `koanf:"ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	SyncTimeout     time.Duration `koanf:"sync_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// APIConfig holds read API settings.
type APIConfig struct {
	PageSize int `koanf:"page_size"`
}

// SecurityConfig holds rate limiting, CORS and admin auth settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	// PolicyPath points at a casbin CSV policy; empty uses the built-in one.
	PolicyPath string `koanf:"policy_path"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load is the entry point used by main.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the environment is "production".
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
