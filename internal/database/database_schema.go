// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"fmt"
)

// schemaStatements run in order on every start. Each is idempotent.
//
// There are no foreign keys: DuckDB cannot delete a referenced row even when
// the referencing rows go first in the same transaction, so eviction removes
// association rows explicitly.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS categories_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS genres_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS collections_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS production_companies_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS movies_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS movie_categories_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY DEFAULT nextval('categories_id_seq'),
		name VARCHAR NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS genres (
		id BIGINT PRIMARY KEY DEFAULT nextval('genres_id_seq'),
		tmdb_id BIGINT NOT NULL UNIQUE,
		name VARCHAR NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS collections (
		id BIGINT PRIMARY KEY DEFAULT nextval('collections_id_seq'),
		tmdb_id BIGINT NOT NULL UNIQUE,
		name VARCHAR NOT NULL,
		poster_path VARCHAR,
		backdrop_path VARCHAR
	)`,

	`CREATE TABLE IF NOT EXISTS production_companies (
		id BIGINT PRIMARY KEY DEFAULT nextval('production_companies_id_seq'),
		tmdb_id BIGINT NOT NULL UNIQUE,
		name VARCHAR NOT NULL,
		logo_path VARCHAR,
		origin_country VARCHAR NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT PRIMARY KEY DEFAULT nextval('movies_id_seq'),
		tmdb_id BIGINT NOT NULL UNIQUE,
		imdb_id VARCHAR,
		title VARCHAR NOT NULL,
		original_title VARCHAR NOT NULL DEFAULT '',
		original_language VARCHAR NOT NULL DEFAULT '',
		overview VARCHAR NOT NULL DEFAULT '',
		tagline VARCHAR NOT NULL DEFAULT '',
		release_date VARCHAR NOT NULL DEFAULT '',
		runtime INTEGER NOT NULL DEFAULT 0,
		budget BIGINT NOT NULL DEFAULT 0,
		revenue BIGINT NOT NULL DEFAULT 0,
		popularity FLOAT8 NOT NULL DEFAULT 0,
		vote_average FLOAT8 NOT NULL DEFAULT 0,
		vote_count INTEGER NOT NULL DEFAULT 0,
		poster_path VARCHAR,
		backdrop_path VARCHAR,
		status VARCHAR NOT NULL DEFAULT '',
		homepage VARCHAR NOT NULL DEFAULT '',
		adult BOOLEAN NOT NULL DEFAULT FALSE,
		video BOOLEAN NOT NULL DEFAULT FALSE,
		category_id BIGINT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS movie_categories (
		id BIGINT PRIMARY KEY DEFAULT nextval('movie_categories_id_seq'),
		movie_id BIGINT NOT NULL,
		category_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (movie_id, category_id)
	)`,

	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id BIGINT NOT NULL,
		genre_id BIGINT NOT NULL,
		UNIQUE (movie_id, genre_id)
	)`,

	`CREATE TABLE IF NOT EXISTS movie_collections (
		movie_id BIGINT NOT NULL,
		collection_id BIGINT NOT NULL,
		UNIQUE (movie_id, collection_id)
	)`,

	`CREATE TABLE IF NOT EXISTS movie_production_companies (
		movie_id BIGINT NOT NULL,
		company_id BIGINT NOT NULL,
		UNIQUE (movie_id, company_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_movie_categories_category ON movie_categories (category_id, id)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies (popularity)`,
}

// initialize creates the schema and seeds the configured categories.
func (db *DB) initialize(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return wrapErr(fmt.Sprintf("schema statement %d", i+1), err)
		}
	}
	return db.seedCategories(ctx, db.cfg.Categories)
}

// seedCategories inserts category reference rows. Existing names are kept,
// so ids stay stable across restarts.
func (db *DB) seedCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return wrapErr("seed category "+name, err)
		}
	}
	return nil
}
