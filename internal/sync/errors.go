// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import "errors"

var (
	// ErrSyncInProgress is returned by TriggerSync while another run is active.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrManagerRunning is returned by Start when the scheduler already runs.
	ErrManagerRunning = errors.New("sync manager is already running")

	// ErrManagerStopped is returned by Stop when the scheduler is not running.
	ErrManagerStopped = errors.New("sync manager is not running")
)
