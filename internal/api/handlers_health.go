// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
)

const healthPingTimeout = 2 * time.Second

// Health handles GET /api/v1/health. A failed store ping answers 503 so
// orchestrators stop routing traffic to the instance.
//
// @Summary Get service health
// @Tags Core
// @Produce json
// @Success 200 {object} models.HealthResponse "Healthy"
// @Failure 503 {object} models.HealthResponse "Store unreachable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	resp := models.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Version:  h.version,
	}
	status := http.StatusOK
	if err := h.catalog.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check: store ping failed")
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, status, resp)
}
