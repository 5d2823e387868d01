// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import (
	"context"
	"fmt"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// SyncGenres fetches the TMDB genre list once and inserts every genre by
// tmdb_id, ignoring existing rows. The first failing insert aborts.
func (s *Synchronizer) SyncGenres(ctx context.Context) (GenreResult, error) {
	var result GenreResult

	genres, err := s.source.ListGenres(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch genres: %w", err)
	}
	result.Fetched = len(genres)

	for _, g := range genres {
		inserted, err := s.store.InsertGenre(ctx, g.ID, g.Name)
		if err != nil {
			return result, fmt.Errorf("insert genre %d: %w", g.ID, err)
		}
		if inserted {
			result.Inserted++
		}
	}
	metrics.SyncGenresInserted.Add(float64(result.Inserted))
	return result, nil
}

// ResolveCollection returns the local id of ref, creating the row when
// needed. A nil ref resolves to nil.
func (s *Synchronizer) ResolveCollection(ctx context.Context, ref *CollectionRef) (*int64, error) {
	if ref == nil {
		return nil, nil
	}
	id, err := s.store.FindOrCreateCollection(ctx, ref.toModel())
	if err != nil {
		return nil, fmt.Errorf("resolve collection %d: %w", ref.ID, err)
	}
	return &id, nil
}

// ResolveCompanies finds or creates every company and links it to movieID.
// A failing company is logged and skipped.
func (s *Synchronizer) ResolveCompanies(ctx context.Context, companies []CompanyRef, movieID int64) CompanyResult {
	var result CompanyResult
	for i := range companies {
		c := &companies[i]
		companyID, err := s.store.FindOrCreateCompany(ctx, c.toModel())
		if err == nil {
			err = s.store.LinkMovieCompany(ctx, movieID, companyID)
		}
		if err != nil {
			result.Failed++
			logging.Ctx(ctx).Warn().Err(err).
				Int64("company_tmdb_id", c.ID).
				Int64("movie_id", movieID).
				Msg("Skipping production company")
			continue
		}
		result.Linked++
	}
	return result
}

// linkGenres links movieID to the stored genres among tmdbGenreIDs. Ids with
// no genres row are skipped.
func (s *Synchronizer) linkGenres(ctx context.Context, movieID int64, tmdbGenreIDs []int64) error {
	if len(tmdbGenreIDs) == 0 {
		return nil
	}
	local, err := s.store.GenreIDsByTMDB(ctx, tmdbGenreIDs)
	if err != nil {
		return fmt.Errorf("resolve genres: %w", err)
	}
	for _, tmdbID := range tmdbGenreIDs {
		genreID, ok := local[tmdbID]
		if !ok {
			continue
		}
		if err := s.store.LinkMovieGenre(ctx, movieID, genreID); err != nil {
			return fmt.Errorf("link genre %d: %w", tmdbID, err)
		}
	}
	return nil
}

// genreIDsFor prefers the list summary's genre_ids over the detail's genres.
func genreIDsFor(summary *MovieSummary, detail *MovieDetail) []int64 {
	if len(summary.GenreIDs) > 0 {
		return summary.GenreIDs
	}
	ids := make([]int64, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
