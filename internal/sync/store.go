// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import (
	"context"

	"github.com/tomtom215/marquee/internal/models"
)

// Store is the catalog storage the synchronizer writes to.
// Implemented by *database.DB.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)

	InsertGenre(ctx context.Context, tmdbID int64, name string) (bool, error)
	GenreIDsByTMDB(ctx context.Context, tmdbIDs []int64) (map[int64]int64, error)
	FindOrCreateCollection(ctx context.Context, c *models.Collection) (int64, error)
	FindOrCreateCompany(ctx context.Context, c *models.ProductionCompany) (int64, error)

	ExistingMovieIDs(ctx context.Context, tmdbIDs []int64) (map[int64]int64, error)
	InsertMovie(ctx context.Context, m *models.Movie) (int64, bool, error)
	LinkMovieCategory(ctx context.Context, movieID, categoryID int64) error
	LinkMovieGenre(ctx context.Context, movieID, genreID int64) error
	LinkMovieCollection(ctx context.Context, movieID, collectionID int64) error
	LinkMovieCompany(ctx context.Context, movieID, companyID int64) error

	CountCategoryMovies(ctx context.Context, categoryID int64) (int64, error)
	EvictOldest(ctx context.Context, categoryID int64, n int) (int, error)
}

// Publisher receives run lifecycle events. Implementations must not block
// for long; errors are logged by the caller and never fail a run.
type Publisher interface {
	PublishSyncProgress(ctx context.Context, report *SyncReport) error
	PublishSyncCompleted(ctx context.Context, report *RunReport) error
}
