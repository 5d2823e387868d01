// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

// InsertGenre inserts a genre unless its TMDB id is already stored.
// inserted reports whether a row was written.
func (db *DB) InsertGenre(ctx context.Context, tmdbID int64, name string) (inserted bool, err error) {
	start := time.Now()
	defer func() { observe("insert", "genres", start, err) }()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO genres (tmdb_id, name) VALUES ($1, $2) ON CONFLICT (tmdb_id) DO NOTHING`,
		tmdbID, name)
	if err != nil {
		return false, wrapErr("insert genre", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr("insert genre rows affected", err)
	}
	return n > 0, nil
}

// GenreIDsByTMDB maps TMDB genre ids to local ids. Unknown ids are absent
// from the result.
func (db *DB) GenreIDsByTMDB(ctx context.Context, tmdbIDs []int64) (ids map[int64]int64, err error) {
	ids = make(map[int64]int64, len(tmdbIDs))
	if len(tmdbIDs) == 0 {
		return ids, nil
	}
	start := time.Now()
	defer func() { observe("select", "genres", start, err) }()

	placeholders, args := inList(tmdbIDs, 1)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT tmdb_id, id FROM genres WHERE tmdb_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, wrapErr("select genre ids", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var tmdbID, id int64
		if err := rows.Scan(&tmdbID, &id); err != nil {
			return nil, wrapErr("scan genre id", err)
		}
		ids[tmdbID] = id
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate genre ids", err)
	}
	return ids, nil
}

// FindOrCreateCollection returns the local id for c.TMDBID, inserting the
// collection first when it is new. Concurrent callers converge on one row.
func (db *DB) FindOrCreateCollection(ctx context.Context, c *models.Collection) (id int64, err error) {
	start := time.Now()
	defer func() { observe("upsert", "collections", start, err) }()

	return db.findOrCreate(ctx, "collections", c.TMDBID,
		`INSERT INTO collections (tmdb_id, name, poster_path, backdrop_path)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (tmdb_id) DO NOTHING
		 RETURNING id`,
		c.TMDBID, c.Name, c.PosterPath, c.BackdropPath)
}

// FindOrCreateCompany is FindOrCreateCollection for production companies.
func (db *DB) FindOrCreateCompany(ctx context.Context, c *models.ProductionCompany) (id int64, err error) {
	start := time.Now()
	defer func() { observe("upsert", "production_companies", start, err) }()

	return db.findOrCreate(ctx, "production_companies", c.TMDBID,
		`INSERT INTO production_companies (tmdb_id, name, logo_path, origin_country)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (tmdb_id) DO NOTHING
		 RETURNING id`,
		c.TMDBID, c.Name, c.LogoPath, c.OriginCountry)
}

// findOrCreate runs an insert-or-ignore returning id and re-selects by
// tmdb_id when the row already existed. A failed insert is also followed by a
// re-select: DuckDB reports a write-write conflict instead of honouring
// ON CONFLICT when another connection inserted the same key concurrently.
func (db *DB) findOrCreate(ctx context.Context, table string, tmdbID int64, insertSQL string, args ...interface{}) (int64, error) {
	mu := db.acquireRefLock(table, tmdbID)
	defer mu.Unlock()

	var id int64
	insertErr := db.conn.QueryRowContext(ctx, insertSQL, args...).Scan(&id)
	if insertErr == nil {
		return id, nil
	}
	if !errors.Is(insertErr, sql.ErrNoRows) && ctx.Err() != nil {
		return 0, ctx.Err()
	}

	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM `+table+` WHERE tmdb_id = $1`, tmdbID).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, sql.ErrNoRows) && !errors.Is(insertErr, sql.ErrNoRows):
		return 0, wrapErr("insert "+table, insertErr)
	default:
		return 0, wrapErr("reselect "+table, err)
	}
}

// inList renders "$n, $n+1, ..." for ids starting at parameter first.
func inList(ids []int64, first int) (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", first+i)
		args[i] = id
	}
	return b.String(), args
}
