// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/upstream"
)

const serviceTMDB = "tmdb"

// Source is the metadata source the synchronizer reads from.
// TMDBClient and CircuitBreakerSource implement it.
type Source interface {
	ListCategoryPage(ctx context.Context, category string, page int) (*MoviePage, error)
	GetMovieDetail(ctx context.Context, tmdbID int64) (*MovieDetail, error)
	GetMovieVideos(ctx context.Context, tmdbID int64) ([]models.Video, error)
	ListGenres(ctx context.Context) ([]Genre, error)
}

// TMDBClient talks to the TMDB v3 API. Every request goes through one shared
// token bucket; there are no retries and no caching.
type TMDBClient struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTMDBClient creates a client from cfg.
func NewTMDBClient(cfg *config.TMDBConfig) *TMDBClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 40
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(rps)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}

	return &TMDBClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// ListCategoryPage fetches one page of /movie/{category}.
func (c *TMDBClient) ListCategoryPage(ctx context.Context, category string, page int) (*MoviePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var result MoviePage
	if err := c.get(ctx, "/movie/"+url.PathEscape(category), "list", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovieDetail fetches /movie/{id}. A missing movie is an *UpstreamError
// whose IsNotFound reports true.
func (c *TMDBClient) GetMovieDetail(ctx context.Context, tmdbID int64) (*MovieDetail, error) {
	q := url.Values{}
	q.Set("language", c.language)

	var result MovieDetail
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(tmdbID, 10), "detail", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovieVideos fetches /movie/{id}/videos.
func (c *TMDBClient) GetMovieVideos(ctx context.Context, tmdbID int64) ([]models.Video, error) {
	q := url.Values{}
	q.Set("language", c.language)

	var result videoList
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(tmdbID, 10)+"/videos", "videos", q, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		return []models.Video{}, nil
	}
	return result.Results, nil
}

// ListGenres fetches the full movie genre list.
func (c *TMDBClient) ListGenres(ctx context.Context) ([]Genre, error) {
	var result genreList
	if err := c.get(ctx, "/genre/movie/list", "genres", nil, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

// get performs one GET and decodes a 2xx body into result. endpoint is the
// low-cardinality metrics label.
func (c *TMDBClient) get(ctx context.Context, path, endpoint string, query url.Values, result interface{}) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(serviceTMDB, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &upstream.UpstreamError{Service: serviceTMDB, Message: redact(err.Error(), c.apiKey), Err: err}
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(serviceTMDB, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &upstream.UpstreamError{
			Service:    serviceTMDB,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(upstream.ReadBodyExcerpt(resp.Body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &upstream.UpstreamError{
			Service:    serviceTMDB,
			StatusCode: resp.StatusCode,
			Message:    "decode response: " + err.Error(),
			Err:        err,
		}
	}
	return nil
}

func (c *TMDBClient) wait(ctx context.Context) error {
	start := time.Now()
	err := c.limiter.Wait(ctx)
	metrics.RateLimiterWait.WithLabelValues(serviceTMDB).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("tmdb rate limiter: %w", err)
	}
	return nil
}

// errorMessage prefers TMDB's status_message over the raw body.
func errorMessage(body string) string {
	var se statusError
	if err := json.Unmarshal([]byte(body), &se); err == nil && se.StatusMessage != "" {
		return se.StatusMessage
	}
	return body
}

// redact strips the API key from transport error text, which embeds the URL.
func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "REDACTED")
}
