// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/marquee/internal/logging"
)

// ErrNotFound is returned when a lookup matches no row, a category has no
// movies, or a requested page is past the end.
var ErrNotFound = errors.New("not found")

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page must be at least 1")

// StoreError wraps a driver error with the operation that failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// MetricLabel classifies store failures for sync error metrics.
func (e *StoreError) MetricLabel() string {
	return "database"
}

// wrapErr returns nil for nil, passes ErrNotFound and context errors through
// and wraps everything else in *StoreError.
func wrapErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidPage) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where Close errors are not
// actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
