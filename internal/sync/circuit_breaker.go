// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import (
	"context"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/upstream"
)

// CircuitBreakerSource wraps a Source with a circuit breaker.
//
// Settings:
//   - Opens when 60% of at least 10 requests in a 1 minute window fail
//   - Stays open 2 minutes, then lets 3 probe requests through
//   - 404s and other client errors do not count as failures
//
// While open, calls fail fast with an *upstream.UpstreamError wrapping
// gobreaker.ErrOpenState.
type CircuitBreakerSource struct {
	source  Source
	breaker *upstream.Breaker
}

// NewCircuitBreakerSource wraps source with the default TMDB breaker settings.
func NewCircuitBreakerSource(source Source) *CircuitBreakerSource {
	return NewCircuitBreakerSourceWithSettings(source, upstream.BreakerSettings{})
}

// NewCircuitBreakerSourceWithSettings wraps source with custom breaker settings.
func NewCircuitBreakerSourceWithSettings(source Source, s upstream.BreakerSettings) *CircuitBreakerSource {
	return &CircuitBreakerSource{
		source:  source,
		breaker: upstream.NewBreaker(serviceTMDB, "tmdb-api", s),
	}
}

// State returns the breaker state.
func (c *CircuitBreakerSource) State() gobreaker.State {
	return c.breaker.State()
}

func (c *CircuitBreakerSource) ListCategoryPage(ctx context.Context, category string, page int) (*MoviePage, error) {
	return upstream.Execute(c.breaker, func() (*MoviePage, error) {
		return c.source.ListCategoryPage(ctx, category, page)
	})
}

func (c *CircuitBreakerSource) GetMovieDetail(ctx context.Context, tmdbID int64) (*MovieDetail, error) {
	return upstream.Execute(c.breaker, func() (*MovieDetail, error) {
		return c.source.GetMovieDetail(ctx, tmdbID)
	})
}

func (c *CircuitBreakerSource) GetMovieVideos(ctx context.Context, tmdbID int64) ([]models.Video, error) {
	return upstream.Execute(c.breaker, func() ([]models.Video, error) {
		return c.source.GetMovieVideos(ctx, tmdbID)
	})
}

func (c *CircuitBreakerSource) ListGenres(ctx context.Context) ([]Genre, error) {
	return upstream.Execute(c.breaker, func() ([]Genre, error) {
		return c.source.ListGenres(ctx)
	})
}
