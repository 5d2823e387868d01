// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"time"
)

// CountCategoryMovies returns how many movies are linked to a category.
func (db *DB) CountCategoryMovies(ctx context.Context, categoryID int64) (n int64, err error) {
	start := time.Now()
	defer func() { observe("count", "movie_categories", start, err) }()

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movie_categories WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, wrapErr("count category movies", err)
	}
	return n, nil
}

// evictionTables lists every table holding a movie_id, children first.
var evictionTables = []string{
	"movie_genres",
	"movie_collections",
	"movie_production_companies",
	"movie_categories",
}

// EvictOldest deletes the n oldest movies of a category, ordered by when they
// were linked to it, together with every association row that references
// them. Evicted movies disappear from all categories. Returns the number of
// movies removed.
func (db *DB) EvictOldest(ctx context.Context, categoryID int64, n int) (evicted int, err error) {
	if n <= 0 {
		return 0, nil
	}
	start := time.Now()
	defer func() { observe("delete", "movies", start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrapErr("begin eviction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx,
		`SELECT movie_id FROM movie_categories WHERE category_id = $1 ORDER BY id LIMIT $2`,
		categoryID, n)
	if err != nil {
		return 0, wrapErr("select eviction candidates", err)
	}
	var movieIDs []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			closeQuietly(rows)
			return 0, wrapErr("scan eviction candidate", err)
		}
		movieIDs = append(movieIDs, id)
	}
	if err = rows.Err(); err != nil {
		closeQuietly(rows)
		return 0, wrapErr("iterate eviction candidates", err)
	}
	closeQuietly(rows)

	if len(movieIDs) == 0 {
		err = tx.Commit()
		return 0, wrapErr("commit eviction", err)
	}

	placeholders, args := inList(movieIDs, 1)
	for _, table := range evictionTables {
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE movie_id IN (`+placeholders+`)`, args...); err != nil {
			return 0, wrapErr("evict from "+table, err)
		}
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM movies WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return 0, wrapErr("evict movies", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, wrapErr("commit eviction", err)
	}
	return len(movieIDs), nil
}
