// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"time"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/review"
	catalogsync "github.com/tomtom215/marquee/internal/sync"
)

const (
	defaultPageSize = 20

	// Trailers rarely change; a short TTL keeps repeated detail views off TMDB.
	videoCacheTTL     = 10 * time.Minute
	videoFetchTimeout = 5 * time.Second
	maxReviewBodySize = 64 << 10
)

// CatalogReader is the read side of the store. Implemented by *database.DB.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListCategoryPage(ctx context.Context, category string, page, pageSize int) (*models.CategoryPage, error)
	SearchMovies(ctx context.Context, query string, page, pageSize int) (*models.CategoryPage, error)
	GetMovieDetail(ctx context.Context, tmdbID int64) (*models.MovieDetail, error)
	Ping(ctx context.Context) error
}

// SyncTrigger runs and reports synchronizations. Implemented by
// *catalogsync.Manager.
type SyncTrigger interface {
	TriggerSync(ctx context.Context) (*catalogsync.RunReport, error)
	Status() catalogsync.Status
}

// ReviewGenerator produces reviews. Implemented by *review.Service.
type ReviewGenerator interface {
	Generate(ctx context.Context, req review.ReviewRequest) (string, error)
}

// VideoSource fetches trailers live. Implemented by the TMDB source.
type VideoSource interface {
	GetMovieVideos(ctx context.Context, tmdbID int64) ([]models.Video, error)
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	catalog  CatalogReader
	syncer   SyncTrigger
	reviews  ReviewGenerator
	videos   VideoSource
	pageSize int
	version  string

	syncTimeout time.Duration

	videoCache *cache.Cache[int64, []models.Video]
}

// Deps groups the Handler dependencies. Videos may be nil, which disables
// trailer lookups on the detail endpoint.
type Deps struct {
	Catalog CatalogReader
	Sync    SyncTrigger
	Reviews ReviewGenerator
	Videos  VideoSource
	Version string
}

// NewHandler creates a handler.
func NewHandler(cfg *config.Config, deps Deps) *Handler {
	pageSize := defaultPageSize
	var syncTimeout time.Duration
	if cfg != nil {
		if cfg.API.PageSize > 0 {
			pageSize = cfg.API.PageSize
		}
		syncTimeout = cfg.Server.SyncTimeout
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		catalog:  deps.Catalog,
		syncer:   deps.Sync,
		reviews:  deps.Reviews,
		videos:   deps.Videos,
		pageSize: pageSize,
		version:  version,

		syncTimeout: syncTimeout,
		videoCache:  cache.New[int64, []models.Video]("videos", videoCacheTTL, time.Minute),
	}
}

// Close stops the handler's background cache cleanup.
func (h *Handler) Close() {
	h.videoCache.Close()
}
