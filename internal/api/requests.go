// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/marquee/internal/review"
)

// ListMoviesRequest holds the query parameters of GET /movies.
type ListMoviesRequest struct {
	Category string `validate:"required,max=64"`
	Page     int    `validate:"min=1"`
}

// SearchRequest holds the query parameters of GET /movies/search.
type SearchRequest struct {
	Query string `validate:"required,max=200"`
	Page  int    `validate:"min=1"`
}

// reviewEnvelope accepts both the flat body and the legacy
// {"modalData": {...}} wrapper sent by the original web client.
type reviewEnvelope struct {
	review.ReviewRequest
	ModalData *legacyModalData `json:"modalData,omitempty"`
}

// legacyModalData is the movie object the web client posts, where "id" is
// the TMDB id.
type legacyModalData struct {
	ID       *int64            `json:"id,omitempty"`
	Title    string            `json:"title"`
	Overview string            `json:"overview"`
	Genres   []review.GenreRef `json:"genres"`
}

// toRequest flattens the envelope.
func (e *reviewEnvelope) toRequest() review.ReviewRequest {
	if e.ModalData == nil {
		return e.ReviewRequest
	}
	return review.ReviewRequest{
		TMDBID:   e.ModalData.ID,
		Title:    e.ModalData.Title,
		Overview: e.ModalData.Overview,
		Genres:   e.ModalData.Genres,
	}
}

// parsePage reads the "page" query parameter. A missing value is page 1;
// anything that is not an integer maps to 0 so validation rejects it.
func parsePage(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return page
}
