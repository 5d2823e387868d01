// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

// MovieIDByTMDB returns the local id of a stored movie or ErrNotFound.
func (db *DB) MovieIDByTMDB(ctx context.Context, tmdbID int64) (id int64, err error) {
	start := time.Now()
	defer func() { observe("select", "movies", start, err) }()

	err = db.conn.QueryRowContext(ctx, `SELECT id FROM movies WHERE tmdb_id = $1`, tmdbID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, wrapErr("select movie id", err)
	}
	return id, nil
}

// ExistingMovieIDs returns local ids for the TMDB ids that are already stored.
func (db *DB) ExistingMovieIDs(ctx context.Context, tmdbIDs []int64) (ids map[int64]int64, err error) {
	ids = make(map[int64]int64, len(tmdbIDs))
	if len(tmdbIDs) == 0 {
		return ids, nil
	}
	start := time.Now()
	defer func() { observe("select", "movies", start, err) }()

	placeholders, args := inList(tmdbIDs, 1)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT tmdb_id, id FROM movies WHERE tmdb_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, wrapErr("select existing movies", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var tmdbID, id int64
		if err := rows.Scan(&tmdbID, &id); err != nil {
			return nil, wrapErr("scan existing movie", err)
		}
		ids[tmdbID] = id
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate existing movies", err)
	}
	return ids, nil
}

// InsertMovie inserts m unless its TMDB id is already stored and returns the
// local id either way. inserted is false when the row already existed.
func (db *DB) InsertMovie(ctx context.Context, m *models.Movie) (id int64, inserted bool, err error) {
	start := time.Now()
	defer func() { observe("insert", "movies", start, err) }()

	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO movies (
			tmdb_id, imdb_id, title, original_title, original_language, overview,
			tagline, release_date, runtime, budget, revenue, popularity,
			vote_average, vote_count, poster_path, backdrop_path, status,
			homepage, adult, video, category_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21
		)
		ON CONFLICT (tmdb_id) DO NOTHING
		RETURNING id`,
		m.TMDBID, m.IMDbID, m.Title, m.OriginalTitle, m.OriginalLanguage, m.Overview,
		m.Tagline, m.ReleaseDate, m.Runtime, m.Budget, m.Revenue, m.Popularity,
		m.VoteAverage, m.VoteCount, m.PosterPath, m.BackdropPath, m.Status,
		m.Homepage, m.Adult, m.Video, m.CategoryID,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, wrapErr("insert movie", err)
	}

	err = db.conn.QueryRowContext(ctx, `SELECT id FROM movies WHERE tmdb_id = $1`, m.TMDBID).Scan(&id)
	if err != nil {
		return 0, false, wrapErr("reselect movie", err)
	}
	return id, false, nil
}

// LinkMovieCategory records that a movie appears in a category. The link id
// is the eviction order, so re-linking an existing pair keeps its position.
func (db *DB) LinkMovieCategory(ctx context.Context, movieID, categoryID int64) error {
	return db.link(ctx, "movie_categories",
		`INSERT INTO movie_categories (movie_id, category_id) VALUES ($1, $2)
		 ON CONFLICT (movie_id, category_id) DO NOTHING`, movieID, categoryID)
}

// LinkMovieGenre links a movie to a genre by local ids.
func (db *DB) LinkMovieGenre(ctx context.Context, movieID, genreID int64) error {
	return db.link(ctx, "movie_genres",
		`INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2)
		 ON CONFLICT (movie_id, genre_id) DO NOTHING`, movieID, genreID)
}

// LinkMovieCollection links a movie to a collection by local ids.
func (db *DB) LinkMovieCollection(ctx context.Context, movieID, collectionID int64) error {
	return db.link(ctx, "movie_collections",
		`INSERT INTO movie_collections (movie_id, collection_id) VALUES ($1, $2)
		 ON CONFLICT (movie_id, collection_id) DO NOTHING`, movieID, collectionID)
}

// LinkMovieCompany links a movie to a production company by local ids.
func (db *DB) LinkMovieCompany(ctx context.Context, movieID, companyID int64) error {
	return db.link(ctx, "movie_production_companies",
		`INSERT INTO movie_production_companies (movie_id, company_id) VALUES ($1, $2)
		 ON CONFLICT (movie_id, company_id) DO NOTHING`, movieID, companyID)
}

func (db *DB) link(ctx context.Context, table, query string, a, b int64) (err error) {
	start := time.Now()
	defer func() { observe("insert", table, start, err) }()

	if _, err = db.conn.ExecContext(ctx, query, a, b); err != nil {
		return wrapErr("insert "+table, err)
	}
	return nil
}
