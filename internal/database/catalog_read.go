// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

// ListCategories returns every seeded category ordered by id, with the
// number of movies currently linked to it.
func (db *DB) ListCategories(ctx context.Context) (cats []models.Category, err error) {
	start := time.Now()
	defer func() { observe("select", "categories", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(mc.movie_id)
		FROM categories c
		LEFT JOIN movie_categories mc ON mc.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id`)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer closeWithLog(rows, "rows")

	cats = []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.MovieCount); err != nil {
			return nil, wrapErr("scan category", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate categories", err)
	}
	return cats, nil
}

// CategoryByName returns the category or ErrNotFound.
func (db *DB) CategoryByName(ctx context.Context, name string) (cat *models.Category, err error) {
	start := time.Now()
	defer func() { observe("select", "categories", start, err) }()

	var c models.Category
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE name = $1`, name).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("select category", err)
	}
	return &c, nil
}

// ListCategoryPage returns one page of a category in link order.
//
// An unknown category, a category with no movies and a page past the last
// all return ErrNotFound.
func (db *DB) ListCategoryPage(ctx context.Context, category string, page, pageSize int) (*models.CategoryPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	cat, err := db.CategoryByName(ctx, category)
	if err != nil {
		return nil, err
	}
	total, err := db.CountCategoryMovies(ctx, cat.ID)
	if err != nil {
		return nil, err
	}
	totalPages := models.TotalPages(total, pageSize)
	if total == 0 || page > totalPages {
		return nil, ErrNotFound
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT m.tmdb_id, m.title, m.poster_path, m.backdrop_path
		FROM movie_categories mc
		JOIN movies m ON m.id = mc.movie_id
		WHERE mc.category_id = $1
		ORDER BY mc.id
		LIMIT $2 OFFSET $3`,
		cat.ID, pageSize, (page-1)*pageSize)
	results, err := scanSummaries(rows, err)
	observe("select", "movie_categories", start, err)
	if err != nil {
		return nil, wrapErr("list category page", err)
	}

	return &models.CategoryPage{
		Page:         page,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}

// SearchMovies matches titles case-insensitively, most popular first.
// No match, or a page past the last, returns ErrNotFound.
func (db *DB) SearchMovies(ctx context.Context, query string, page, pageSize int) (*models.CategoryPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"

	start := time.Now()
	var total int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movies WHERE title ILIKE $1 ESCAPE '\'`, pattern).Scan(&total)
	observe("count", "movies", start, err)
	if err != nil {
		return nil, wrapErr("count search results", err)
	}
	totalPages := models.TotalPages(total, pageSize)
	if total == 0 || page > totalPages {
		return nil, ErrNotFound
	}

	start = time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT tmdb_id, title, poster_path, backdrop_path
		FROM movies
		WHERE title ILIKE $1 ESCAPE '\'
		ORDER BY popularity DESC, id
		LIMIT $2 OFFSET $3`,
		pattern, pageSize, (page-1)*pageSize)
	results, err := scanSummaries(rows, err)
	observe("select", "movies", start, err)
	if err != nil {
		return nil, wrapErr("search movies", err)
	}

	return &models.CategoryPage{
		Page:         page,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}

func scanSummaries(rows *sql.Rows, queryErr error) ([]models.MovieSummary, error) {
	if queryErr != nil {
		return nil, queryErr
	}
	defer closeWithLog(rows, "rows")

	results := []models.MovieSummary{}
	for rows.Next() {
		var s models.MovieSummary
		if err := rows.Scan(&s.TMDBID, &s.Title, &s.PosterPath, &s.BackdropPath); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// GetMovieDetail loads a stored movie by TMDB id with its genres, production
// companies and collection. Missing movies return ErrNotFound.
func (db *DB) GetMovieDetail(ctx context.Context, tmdbID int64) (detail *models.MovieDetail, err error) {
	start := time.Now()
	defer func() { observe("select", "movies", start, err) }()

	d := &models.MovieDetail{
		Genres:              []models.Genre{},
		ProductionCompanies: []models.ProductionCompany{},
	}
	m := &d.Movie
	err = db.conn.QueryRowContext(ctx, `
		SELECT id, tmdb_id, imdb_id, title, original_title, original_language,
		       overview, tagline, release_date, runtime, budget, revenue,
		       popularity, vote_average, vote_count, poster_path, backdrop_path,
		       status, homepage, adult, video, category_id, created_at
		FROM movies WHERE tmdb_id = $1`, tmdbID).Scan(
		&m.ID, &m.TMDBID, &m.IMDbID, &m.Title, &m.OriginalTitle, &m.OriginalLanguage,
		&m.Overview, &m.Tagline, &m.ReleaseDate, &m.Runtime, &m.Budget, &m.Revenue,
		&m.Popularity, &m.VoteAverage, &m.VoteCount, &m.PosterPath, &m.BackdropPath,
		&m.Status, &m.Homepage, &m.Adult, &m.Video, &m.CategoryID, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("select movie", err)
	}

	if d.Genres, err = db.movieGenres(ctx, m.ID); err != nil {
		return nil, err
	}
	if d.ProductionCompanies, err = db.movieCompanies(ctx, m.ID); err != nil {
		return nil, err
	}
	if d.BelongsToCollection, err = db.movieCollection(ctx, m.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func (db *DB) movieGenres(ctx context.Context, movieID int64) ([]models.Genre, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT g.id, g.tmdb_id, g.name
		FROM movie_genres mg
		JOIN genres g ON g.id = mg.genre_id
		WHERE mg.movie_id = $1
		ORDER BY g.name`, movieID)
	if err != nil {
		return nil, wrapErr("select movie genres", err)
	}
	defer closeWithLog(rows, "rows")

	genres := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.TMDBID, &g.Name); err != nil {
			return nil, wrapErr("scan movie genre", err)
		}
		genres = append(genres, g)
	}
	return genres, wrapErr("iterate movie genres", rows.Err())
}

func (db *DB) movieCompanies(ctx context.Context, movieID int64) ([]models.ProductionCompany, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT pc.id, pc.tmdb_id, pc.name, pc.logo_path, pc.origin_country
		FROM movie_production_companies mpc
		JOIN production_companies pc ON pc.id = mpc.company_id
		WHERE mpc.movie_id = $1
		ORDER BY pc.name`, movieID)
	if err != nil {
		return nil, wrapErr("select movie companies", err)
	}
	defer closeWithLog(rows, "rows")

	companies := []models.ProductionCompany{}
	for rows.Next() {
		var c models.ProductionCompany
		if err := rows.Scan(&c.ID, &c.TMDBID, &c.Name, &c.LogoPath, &c.OriginCountry); err != nil {
			return nil, wrapErr("scan movie company", err)
		}
		companies = append(companies, c)
	}
	return companies, wrapErr("iterate movie companies", rows.Err())
}

func (db *DB) movieCollection(ctx context.Context, movieID int64) (*models.Collection, error) {
	var c models.Collection
	err := db.conn.QueryRowContext(ctx, `
		SELECT c.id, c.tmdb_id, c.name, c.poster_path, c.backdrop_path
		FROM movie_collections mc
		JOIN collections c ON c.id = mc.collection_id
		WHERE mc.movie_id = $1
		ORDER BY c.id
		LIMIT 1`, movieID).Scan(&c.ID, &c.TMDBID, &c.Name, &c.PosterPath, &c.BackdropPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("select movie collection", err)
	}
	return &c, nil
}
