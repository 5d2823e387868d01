// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package upstream holds what the TMDB and OpenAI clients share: the typed
// upstream error, bounded error-body reads and a metered circuit breaker.
package upstream

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UpstreamError reports a non-success response from, or a failure to reach,
// an upstream service. StatusCode is 0 when no response was received.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: request failed: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the upstream answered 404.
func (e *UpstreamError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsClientError reports a 4xx answer other than 429. Such errors describe
// the request, not the health of the upstream.
func (e *UpstreamError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests
}

// MetricLabel classifies the error for sync error metrics.
func (e *UpstreamError) MetricLabel() string {
	return e.Service + "_api"
}

// maxErrorExcerpt bounds how much of an error body ends up in a message.
const maxErrorExcerpt = 512

// ReadBodyExcerpt reads at most maxErrorExcerpt bytes of r for an error
// message, trimmed and marked when truncated.
func ReadBodyExcerpt(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorExcerpt+1))
	if err != nil {
		return "(failed to read response body)"
	}
	truncated := len(body) > maxErrorExcerpt
	if truncated {
		body = body[:maxErrorExcerpt]
	}
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "(empty response body)"
	}
	if truncated {
		s += "... (truncated)"
	}
	return s
}
