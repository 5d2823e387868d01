// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:     "duckdb",
			Path:       "/data/marquee.duckdb",
			MaxMemory:  "1GB",
			Threads:    0, // runtime.NumCPU()
			Categories: []string{"popular", "top_rated", "upcoming", "now_playing"},
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			Language:          "en-US",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 40,
			Burst:             40,
		},
		OpenAI: OpenAIConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			Temperature: 0.7,
			MaxTokens:   400,
			Timeout:     60 * time.Second,
		},
		Sync: SyncConfig{
			Pages:      10,
			PageDelay:  time.Second,
			BatchSize:  40,
			BatchPause: time.Second,
			Cap:        10000,
			Interval:   0, // manual only
			OnStartup:  false,
		},
		ReviewCache: ReviewCacheConfig{
			Enabled: true,
			Path:    "",
			TTL:     7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			SyncTimeout:     30 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			PageSize: 20,
		},
		Security: SecurityConfig{
			TokenTTL:        24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads defaults, then the optional config file, then the
// environment, and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"database.categories",
	"security.cors_origins",
}

// processSliceFields turns comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			continue
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"database_driver":     "database.driver",
	"database_path":       "database.path",
	"database_dsn":        "database.dsn",
	"duckdb_path":         "database.path",
	"duckdb_max_memory":   "database.max_memory",
	"duckdb_threads":      "database.threads",
	"database_url":        "database.dsn",
	"movie_categories":    "database.categories",
	"tmdb_api_key":        "tmdb.api_key",
	"tmdb_base_url":       "tmdb.base_url",
	"tmdb_language":       "tmdb.language",
	"tmdb_timeout":        "tmdb.timeout",
	"tmdb_rate_limit":     "tmdb.requests_per_second",
	"tmdb_burst":          "tmdb.burst",
	"openai_api_key":      "openai.api_key",
	"openai_base_url":     "openai.base_url",
	"openai_model":        "openai.model",
	"openai_temperature":  "openai.temperature",
	"openai_max_tokens":   "openai.max_tokens",
	"openai_timeout":      "openai.timeout",
	"sync_pages":          "sync.pages",
	"sync_page_delay":     "sync.page_delay",
	"sync_batch_size":     "sync.batch_size",
	"sync_batch_pause":    "sync.batch_pause",
	"sync_cap":            "sync.cap",
	"sync_interval":       "sync.interval",
	"sync_on_startup":     "sync.on_startup",
	"review_cache":        "review_cache.enabled",
	"review_cache_path":   "review_cache.path",
	"review_cache_ttl":    "review_cache.ttl",
	"http_port":           "server.port",
	"http_host":           "server.host",
	"http_timeout":        "server.timeout",
	"sync_timeout":        "server.sync_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"environment":         "server.environment",
	"api_page_size":       "api.page_size",
	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"policy_path":         "security.policy_path",
	"log_level":           "logging.level",
	"log_format":          "logging.format",
	"log_caller":          "logging.caller",
}

// envTransformFunc maps flat environment names onto nested config paths.
// Unknown variables return "" and are ignored by the env provider.
//
//	TMDB_API_KEY  -> tmdb.api_key
//	SYNC_PAGES    -> sync.pages
//	HTTP_PORT     -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
