// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/auth"
	"github.com/tomtom215/marquee/internal/logging"
	catalogsync "github.com/tomtom215/marquee/internal/sync"
)

const (
	syncSuccessMessage = "Movies and genres fetched and inserted successfully!"
	syncFailureMessage = "An error occurred while fetching and inserting movies and genres."
)

// SyncResponse is the body of a successful POST /sync.
type SyncResponse struct {
	Message string                 `json:"message"`
	Report  *catalogsync.RunReport `json:"report"`
}

// TriggerSync handles POST /api/v1/sync. The run blocks the request until
// every category has been processed, so the write deadline is pushed out to
// cover the sync timeout.
//
// @Summary Synchronize the catalog
// @Description Fetches every category from TMDB and stores new movies, genres, collections and companies. Blocks until the run finishes.
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SyncResponse "Run report"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} models.ErrorResponse "Role not allowed"
// @Failure 409 {object} models.ErrorResponse "Sync already in progress"
// @Failure 500 {object} models.ErrorResponse "Sync failed"
// @Router /sync [post]
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	logger := logging.Ctx(r.Context())
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		logger.Info().Str("subject", claims.Subject).Msg("Sync triggered")
	} else {
		logger.Info().Msg("Sync triggered")
	}

	if h.syncTimeout > 0 {
		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Now().Add(h.syncTimeout + 30*time.Second)); err != nil {
			logger.Debug().Err(err).Msg("Could not extend write deadline")
		}
	}

	report, err := h.syncer.TriggerSync(r.Context())
	switch {
	case errors.Is(err, catalogsync.ErrSyncInProgress):
		respondError(w, http.StatusConflict, err.Error())
	case err != nil:
		logger.Error().Err(err).Msg("Synchronization failed")
		respondError(w, http.StatusInternalServerError, syncFailureMessage)
	default:
		respondJSON(w, http.StatusOK, SyncResponse{Message: syncSuccessMessage, Report: report})
	}
}

// SyncStatus handles GET /api/v1/sync/status.
//
// @Summary Get sync status
// @Tags Sync
// @Produce json
// @Success 200 {object} catalogsync.Status "Scheduler state and last report"
// @Router /sync/status [get]
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.syncer.Status())
}
