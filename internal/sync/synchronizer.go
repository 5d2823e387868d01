// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

const (
	defaultPages = 10
	defaultCap   = 10000
)

// Synchronizer runs the catalog synchronization job.
type Synchronizer struct {
	source    Source
	store     Store
	publisher Publisher
	executor  *Executor
	pages     int
	pageDelay time.Duration
	capacity  int
}

// NewSynchronizer creates a synchronizer. publisher may be nil.
func NewSynchronizer(source Source, store Store, cfg *config.SyncConfig, publisher Publisher) *Synchronizer {
	s := &Synchronizer{
		source:    source,
		store:     store,
		publisher: publisher,
		executor:  NewExecutor(cfg.BatchSize, cfg.BatchPause),
		pages:     cfg.Pages,
		pageDelay: cfg.PageDelay,
		capacity:  cfg.Cap,
	}
	if s.pages <= 0 {
		s.pages = defaultPages
	}
	if s.pageDelay < 0 {
		s.pageDelay = 0
	}
	if s.capacity <= 0 {
		s.capacity = defaultCap
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	return s
}

// SyncAll reconciles genres once, then synchronizes every stored category in
// id order. A failing category does not stop the others; their errors are
// joined into the returned error. The report is returned in every case.
func (s *Synchronizer) SyncAll(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{StartedAt: start.UTC(), Categories: []SyncReport{}}
	logger := logging.Ctx(ctx)

	genres, err := s.SyncGenres(ctx)
	report.Genres = genres
	if err != nil {
		logger.Warn().Err(err).Msg("Genre reconciliation failed, continuing with categories")
		report.Errors = append(report.Errors, err.Error())
	} else {
		logger.Info().Int("fetched", genres.Fetched).Int("inserted", genres.Inserted).Msg("Genres reconciled")
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		report.Duration = time.Since(start)
		report.Errors = append(report.Errors, err.Error())
		return report, fmt.Errorf("list categories: %w", err)
	}

	var errs []error
	for _, cat := range categories {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			report.Errors = append(report.Errors, err.Error())
			break
		}

		catReport, err := s.Synchronize(ctx, cat)
		report.Categories = append(report.Categories, *catReport)
		if err != nil {
			err = fmt.Errorf("category %s: %w", cat.Name, err)
			errs = append(errs, err)
			report.Errors = append(report.Errors, err.Error())
			logger.Error().Err(err).Msg("Category synchronization failed")
		}

		if perr := s.publisher.PublishSyncProgress(ctx, catReport); perr != nil {
			logger.Warn().Err(perr).Str("category", cat.Name).Msg("Failed to publish sync progress")
		}
	}

	report.Duration = time.Since(start)
	logger.Info().
		Int("categories", len(report.Categories)).
		Int("inserted", report.Inserted()).
		Int("failed", report.Failed()).
		Dur("duration", report.Duration).
		Msg("Catalog synchronization finished")

	return report, errors.Join(errs...)
}

// Synchronize fetches the category's list pages, makes room by evicting the
// oldest movies when at capacity, links movies already stored and inserts
// the rest through the batch executor.
//
// Page and eviction failures abort the category. Task failures are recorded
// in the report.
func (s *Synchronizer) Synchronize(ctx context.Context, cat models.Category) (*SyncReport, error) {
	start := time.Now()
	report := &SyncReport{Category: cat.Name}
	defer func() {
		report.Duration = time.Since(start)
		metrics.RecordCategorySync(cat.Name, report.Duration, report.Inserted, report.Existing, report.Failed, report.Evicted)
	}()

	logger := logging.Ctx(ctx).With().Str("category", cat.Name).Logger()

	summaries, pages, err := s.fetchPages(ctx, cat.Name)
	report.PagesFetched = pages
	if err != nil {
		report.Error = err.Error()
		return report, err
	}
	report.Candidates = len(summaries)

	evicted, err := s.evict(ctx, cat.ID)
	report.Evicted = evicted
	if err != nil {
		report.Error = err.Error()
		return report, err
	}

	tmdbIDs := make([]int64, len(summaries))
	for i := range summaries {
		tmdbIDs[i] = summaries[i].ID
	}
	existing, err := s.store.ExistingMovieIDs(ctx, tmdbIDs)
	if err != nil {
		err = fmt.Errorf("lookup existing movies: %w", err)
		report.Error = err.Error()
		return report, err
	}

	var (
		pending []*MovieSummary
		tasks   []Task
	)
	for i := range summaries {
		summary := &summaries[i]
		if movieID, ok := existing[summary.ID]; ok {
			if err := s.store.LinkMovieCategory(ctx, movieID, cat.ID); err != nil {
				report.fail(summary.ID, err)
				logger.Warn().Err(err).Int64("tmdb_id", summary.ID).Msg("Failed to link existing movie")
				continue
			}
			report.Existing++
			continue
		}
		pending = append(pending, summary)
	}

	inserted := make([]bool, len(pending))
	for i, summary := range pending {
		tasks = append(tasks, func(ctx context.Context) error {
			ok, err := s.syncMovie(ctx, cat.ID, summary)
			inserted[i] = ok
			return err
		})
	}

	logger.Info().
		Int("candidates", report.Candidates).
		Int("existing", report.Existing).
		Int("new", len(tasks)).
		Int("evicted", report.Evicted).
		Msg("Fetching movie details")

	for _, outcome := range s.executor.Run(ctx, tasks) {
		summary := pending[outcome.Index]
		if outcome.Err != nil {
			report.fail(summary.ID, outcome.Err)
			logger.Warn().Err(outcome.Err).Int64("tmdb_id", summary.ID).Str("title", summary.Title).Msg("Movie synchronization failed")
			continue
		}
		if inserted[outcome.Index] {
			report.Inserted++
		} else {
			report.Existing++
		}
	}

	logger.Info().
		Int("inserted", report.Inserted).
		Int("failed", report.Failed).
		Msg("Category synchronized")
	return report, nil
}

func (r *SyncReport) fail(tmdbID int64, err error) {
	r.Failed++
	r.Failures = append(r.Failures, TaskFailure{TMDBID: tmdbID, Reason: err.Error()})
}

// fetchPages reads pages 1..s.pages sequentially, waiting pageDelay after
// each one, and returns the summaries de-duplicated in first-seen order.
func (s *Synchronizer) fetchPages(ctx context.Context, category string) ([]MovieSummary, int, error) {
	seen := make(map[int64]struct{})
	var summaries []MovieSummary
	fetched := 0

	for page := 1; page <= s.pages; page++ {
		result, err := s.source.ListCategoryPage(ctx, category, page)
		if err != nil {
			return summaries, fetched, fmt.Errorf("fetch page %d: %w", page, err)
		}
		fetched++

		for _, m := range result.Results {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			summaries = append(summaries, m)
		}

		if err := sleepCtx(ctx, s.pageDelay); err != nil {
			return summaries, fetched, err
		}
		if result.TotalPages > 0 && page >= result.TotalPages {
			break
		}
	}
	return summaries, fetched, nil
}

// evict removes the oldest linked movies so that one more fits under the cap.
func (s *Synchronizer) evict(ctx context.Context, categoryID int64) (int, error) {
	count, err := s.store.CountCategoryMovies(ctx, categoryID)
	if err != nil {
		return 0, fmt.Errorf("count category movies: %w", err)
	}
	if count < int64(s.capacity) {
		return 0, nil
	}
	n := int(count - int64(s.capacity) + 1)
	evicted, err := s.store.EvictOldest(ctx, categoryID, n)
	if err != nil {
		return evicted, fmt.Errorf("evict oldest movies: %w", err)
	}
	return evicted, nil
}

// syncMovie is the detail task for one new movie. inserted is false when a
// concurrent writer stored it first.
func (s *Synchronizer) syncMovie(ctx context.Context, categoryID int64, summary *MovieSummary) (inserted bool, err error) {
	detail, err := s.source.GetMovieDetail(ctx, summary.ID)
	if err != nil {
		return false, fmt.Errorf("fetch detail: %w", err)
	}
	if detail.ID == 0 {
		detail.ID = summary.ID
	}

	collectionID, err := s.ResolveCollection(ctx, detail.BelongsToCollection)
	if err != nil {
		return false, err
	}

	movieID, inserted, err := s.store.InsertMovie(ctx, detail.toMovie(categoryID))
	if err != nil {
		return false, err
	}
	if err := s.store.LinkMovieCategory(ctx, movieID, categoryID); err != nil {
		return inserted, err
	}
	if collectionID != nil {
		if err := s.store.LinkMovieCollection(ctx, movieID, *collectionID); err != nil {
			return inserted, err
		}
	}

	companies := s.ResolveCompanies(ctx, detail.ProductionCompanies, movieID)
	if companies.Failed > 0 {
		logging.Ctx(ctx).Debug().
			Int64("tmdb_id", summary.ID).
			Int("linked", companies.Linked).
			Int("failed", companies.Failed).
			Msg("Some production companies were skipped")
	}

	if err := s.linkGenres(ctx, movieID, genreIDsFor(summary, detail)); err != nil {
		return inserted, err
	}
	return inserted, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishSyncProgress(context.Context, *SyncReport) error { return nil }
func (noopPublisher) PublishSyncCompleted(context.Context, *RunReport) error { return nil }
