// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/validation"
)

// GenerateReview handles /api/v1/reviews. Only POST is allowed; the route is
// mounted for every method so other verbs get the JSON 405 body.
//
// @Summary Generate a movie review
// @Description Writes a short review from the title, overview and the first two genres. The legacy {"modalData": {...}} envelope is also accepted.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param request body review.ReviewRequest true "Movie to review"
// @Success 200 {object} models.ReviewResponse "Review"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 405 {object} models.ErrorResponse "Method not allowed"
// @Failure 500 {object} models.ErrorResponse "Generation failed"
// @Router /reviews [post]
func (h *Handler) GenerateReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respondError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", r.Method))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReviewBodySize)
	var env reviewEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := env.toRequest()
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error())
		return
	}

	text, err := h.reviews.Generate(r.Context(), req)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("title", sanitizeLogValue(req.Title)).
			Msg("Error generating review")
		respondError(w, http.StatusInternalServerError, "Failed to generate review")
		return
	}
	respondJSON(w, http.StatusOK, models.ReviewResponse{Review: text})
}
