// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package sync mirrors TMDB movie lists into the local catalog store.

Key Components:

  - TMDBClient: HTTP client for the TMDB v3 API behind a shared token bucket
  - CircuitBreakerSource: gobreaker decorator implementing the same Source interface
  - Executor: runs tasks in fixed-size concurrent groups with a pause between groups
  - Reconcilers: genre, collection and production company find-or-create
  - Synchronizer: one run over every category (genres, pages, eviction, inserts)
  - Manager: single-flight trigger, periodic scheduler and last-run status

Run Flow:

 1. Genres: the TMDB genre list is inserted by tmdb_id (insert-or-ignore).
    A failure is logged and recorded in the run report; the run continues.
 2. Categories are processed sequentially in id order. For each one:
    a. Fetch the configured number of list pages, waiting page_delay after each.
    b. Evict the oldest linked movies when the category is at capacity.
    c. Link movies that are already stored; build a detail task for the rest.
    d. Run the tasks through the Executor (40 at a time, 1s pause by default).
 3. A completed run is published to the event bus and kept as the last report.

A task fetches the movie detail, resolves its collection, inserts the movie,
links category and collection, resolves production companies and links genres.
Task failures are logged with the TMDB id and counted; they never abort the
category. Page and eviction failures abort the category; SyncAll moves on to
the next one and returns the joined error at the end.

Thread Safety:

The Manager allows one run at a time. TriggerSync returns ErrSyncInProgress
instead of queueing. Store-side reference rows converge under concurrency
because every find-or-create is insert-or-ignore followed by a reselect.
*/
package sync
