// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

// MessageResponse is the {message} error body of the catalog read endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the {error} body used by the detail, review and sync
// endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReviewResponse wraps a generated review.
type ReviewResponse struct {
	Review string `json:"review"`
}

// CategoriesResponse lists the seeded categories with their movie counts.
type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

// HealthResponse reports process and store health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}
