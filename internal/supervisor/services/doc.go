// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package services adapts Marquee's long-running components to
// suture.Service. Each Serve blocks until ctx is canceled and returns
// ctx.Err() after a clean stop, or a wrapped error that asks the supervisor
// for a restart.
package services
