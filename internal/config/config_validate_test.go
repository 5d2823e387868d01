// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.TMDB.APIKey = "key"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with key", func(*Config) {}, ""},
		{"missing tmdb key", func(c *Config) { c.TMDB.APIKey = "" }, "TMDB_API_KEY"},
		{"tmdb url without scheme", func(c *Config) { c.TMDB.BaseURL = "api.themoviedb.org/3" }, "TMDB_BASE_URL"},
		{"tmdb url ftp", func(c *Config) { c.TMDB.BaseURL = "ftp://x/3" }, "http or https"},
		{"duplicate category", func(c *Config) { c.Database.Categories = []string{"popular", "popular"} }, "duplicate"},
		{"no categories", func(c *Config) { c.Database.Categories = nil }, "at least one"},
		{"pgx with dsn", func(c *Config) {
			c.Database.Driver = "pgx"
			c.Database.DSN = "postgres://localhost/marquee"
		}, ""},
		{"negative batch pause", func(c *Config) { c.Sync.BatchPause = -1 }, "SYNC_BATCH_PAUSE"},
		{"zero cap", func(c *Config) { c.Sync.Cap = 0 }, "SYNC_CAP"},
		{"page size too large", func(c *Config) { c.API.PageSize = 500 }, "API_PAGE_SIZE"},
		{"temperature out of range", func(c *Config) { c.OpenAI.Temperature = 3 }, "OPENAI_TEMPERATURE"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://api.themoviedb.org/3", false},
		{"http://localhost:8080", false},
		{"", true},
		{"not a url", true},
		{"https://", true},
	}
	for _, tt := range tests {
		err := validateHTTPURL(tt.url, "FIELD")
		if (err != nil) != tt.wantErr {
			t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
