// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package upstream

import (
	"context"
	"errors"
	"strings"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestUpstreamError(t *testing.T) {
	base := errors.New("dial tcp: refused")
	tests := []struct {
		name        string
		err         *UpstreamError
		wantMsg     string
		notFound    bool
		clientError bool
	}{
		{"transport", &UpstreamError{Service: "tmdb", Message: "dial", Err: base}, "tmdb: request failed: dial", false, false},
		{"not found", &UpstreamError{Service: "tmdb", StatusCode: 404, Message: "gone"}, "tmdb: status 404: gone", true, true},
		{"rate limited", &UpstreamError{Service: "openai", StatusCode: 429, Message: "slow down"}, "openai: status 429: slow down", false, false},
		{"server", &UpstreamError{Service: "openai", StatusCode: 502, Message: "bad gateway"}, "openai: status 502: bad gateway", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if tt.err.IsNotFound() != tt.notFound {
				t.Errorf("IsNotFound() = %v", tt.err.IsNotFound())
			}
			if tt.err.IsClientError() != tt.clientError {
				t.Errorf("IsClientError() = %v", tt.err.IsClientError())
			}
		})
	}

	wrapped := &UpstreamError{Service: "tmdb", Err: base}
	if !errors.Is(wrapped, base) {
		t.Error("UpstreamError should unwrap to its cause")
	}
	if wrapped.MetricLabel() != "tmdb_api" {
		t.Errorf("MetricLabel() = %q", wrapped.MetricLabel())
	}
}

func TestReadBodyExcerpt(t *testing.T) {
	if got := ReadBodyExcerpt(strings.NewReader("  ")); got != "(empty response body)" {
		t.Errorf("empty body = %q", got)
	}
	if got := ReadBodyExcerpt(strings.NewReader(`{"status_message":"nope"}`)); got != `{"status_message":"nope"}` {
		t.Errorf("short body = %q", got)
	}
	long := ReadBodyExcerpt(strings.NewReader(strings.Repeat("x", 4096)))
	if !strings.HasSuffix(long, "... (truncated)") {
		t.Errorf("long body should be marked truncated, got suffix %q", long[len(long)-20:])
	}
	if len(long) != maxErrorExcerpt+len("... (truncated)") {
		t.Errorf("excerpt length = %d", len(long))
	}
}

func TestBreakerTripsOnServerErrors(t *testing.T) {
	b := NewBreaker("tmdb", "test-trip", BreakerSettings{MinRequests: 3, FailureRatio: 0.5})
	fail := func() (int, error) {
		return 0, &UpstreamError{Service: "tmdb", StatusCode: 503, Message: "down"}
	}
	for i := 0; i < 4; i++ {
		if _, err := Execute(b, fail); err == nil {
			t.Fatal("expected error")
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state = %s, want open", StateString(b.State()))
	}

	called := false
	_, err := Execute(b, func() (int, error) {
		called = true
		return 1, nil
	})
	if called {
		t.Error("open breaker should not call fn")
	}
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Service != "tmdb" {
		t.Fatalf("rejection should be *UpstreamError, got %T %v", err, err)
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Error("rejection should unwrap to ErrOpenState")
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	b := NewBreaker("tmdb", "test-client", BreakerSettings{MinRequests: 2, FailureRatio: 0.5})
	for i := 0; i < 5; i++ {
		_, _ = Execute(b, func() (int, error) {
			return 0, &UpstreamError{Service: "tmdb", StatusCode: 404}
		})
		_, _ = Execute(b, func() (int, error) {
			return 0, context.Canceled
		})
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", StateString(b.State()))
	}
}

func TestBreakerReturnsTypedResult(t *testing.T) {
	b := NewBreaker("openai", "test-typed", BreakerSettings{})
	got, err := Execute(b, func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Errorf("Execute = %q, %v", got, err)
	}
	if b.Name() != "test-typed" {
		t.Errorf("Name() = %q", b.Name())
	}
}
