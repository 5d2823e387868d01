// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import "time"

// GenreResult summarizes one genre reconciliation.
type GenreResult struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
}

// CompanyResult summarizes the production companies of one movie.
type CompanyResult struct {
	Linked int `json:"linked"`
	Failed int `json:"failed"`
}

// TaskFailure records a movie whose detail task failed.
type TaskFailure struct {
	TMDBID int64  `json:"tmdb_id"`
	Reason string `json:"reason"`
}

// SyncReport is the outcome of one category.
type SyncReport struct {
	Category     string        `json:"category"`
	PagesFetched int           `json:"pages_fetched"`
	Candidates   int           `json:"candidates"`
	Existing     int           `json:"existing"`
	Evicted      int           `json:"evicted"`
	Inserted     int           `json:"inserted"`
	Failed       int           `json:"failed"`
	Failures     []TaskFailure `json:"failures,omitempty"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
}

// RunReport is the outcome of one SyncAll.
type RunReport struct {
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Genres     GenreResult   `json:"genres"`
	Categories []SyncReport  `json:"categories"`
	Errors     []string      `json:"errors,omitempty"`
}

// Inserted sums inserted movies across categories.
func (r *RunReport) Inserted() int {
	n := 0
	for i := range r.Categories {
		n += r.Categories[i].Inserted
	}
	return n
}

// Failed sums failed tasks across categories.
func (r *RunReport) Failed() int {
	n := 0
	for i := range r.Categories {
		n += r.Categories[i].Failed
	}
	return n
}
