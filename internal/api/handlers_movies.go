// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/validation"
)

// Categories handles GET /api/v1/categories.
//
// @Summary List categories
// @Description Returns the seeded TMDB lists with the number of movies currently stored for each.
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.CategoriesResponse "Categories"
// @Failure 500 {object} models.MessageResponse "Store failure"
// @Router /categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list categories")
		respondMessage(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	respondJSON(w, http.StatusOK, models.CategoriesResponse{Categories: cats})
}

// ListMovies handles GET /api/v1/movies?category=&page=.
//
// @Summary List a category page
// @Description Returns one page of a category ordered by insertion, newest first.
// @Tags Catalog
// @Produce json
// @Param category query string true "Category name (popular, top_rated, upcoming, now_playing)"
// @Param page query int false "Page number, 1-based" default(1) minimum(1)
// @Success 200 {object} models.CategoryPage "Movies"
// @Failure 400 {object} models.MessageResponse "Missing category or invalid page"
// @Failure 404 {object} models.MessageResponse "Unknown category or page past the end"
// @Failure 500 {object} models.MessageResponse "Store failure"
// @Router /movies [get]
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	req := ListMoviesRequest{
		Category: r.URL.Query().Get("category"),
		Page:     parsePage(r),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondMessage(w, http.StatusBadRequest, verr.Error())
		return
	}

	page, err := h.catalog.ListCategoryPage(r.Context(), req.Category, req.Page, h.pageSize)
	if err != nil {
		h.respondPageError(w, r, err, "category", req.Category)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// SearchMovies handles GET /api/v1/movies/search?query=&page=.
//
// @Summary Search movies by title
// @Description Case-insensitive substring match on the title, ordered by popularity.
// @Tags Catalog
// @Produce json
// @Param query query string true "Title fragment"
// @Param page query int false "Page number, 1-based" default(1) minimum(1)
// @Success 200 {object} models.CategoryPage "Matches"
// @Failure 400 {object} models.MessageResponse "Missing query or invalid page"
// @Failure 404 {object} models.MessageResponse "No matches"
// @Failure 500 {object} models.MessageResponse "Store failure"
// @Router /movies/search [get]
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	req := SearchRequest{
		Query: r.URL.Query().Get("query"),
		Page:  parsePage(r),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondMessage(w, http.StatusBadRequest, verr.Error())
		return
	}

	page, err := h.catalog.SearchMovies(r.Context(), req.Query, req.Page, h.pageSize)
	if err != nil {
		h.respondPageError(w, r, err, "query", req.Query)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) respondPageError(w http.ResponseWriter, r *http.Request, err error, key, value string) {
	switch {
	case errors.Is(err, database.ErrInvalidPage):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "No movies found")
	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str(key, sanitizeLogValue(value)).
			Msg("Failed to read movie page")
		respondMessage(w, http.StatusInternalServerError, "Failed to fetch movies")
	}
}

// MovieDetail handles GET /api/v1/movies/{id}, where id is the TMDB id.
//
// @Summary Get movie details
// @Description Returns the stored movie with genres, production companies and collection. Trailers are fetched live from TMDB and omitted when that fails.
// @Tags Catalog
// @Produce json
// @Param id path int true "TMDB movie id"
// @Success 200 {object} models.MovieDetail "Movie"
// @Failure 400 {object} models.ErrorResponse "Invalid id"
// @Failure 404 {object} models.MessageResponse "Movie not found"
// @Failure 500 {object} models.ErrorResponse "Store failure"
// @Router /movies/{id} [get]
func (h *Handler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "Movie ID is required")
		return
	}

	detail, err := h.catalog.GetMovieDetail(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondMessage(w, http.StatusNotFound, "Movie not found")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("tmdb_id", id).Msg("Failed to read movie detail")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	detail.Videos = h.movieVideos(r.Context(), id)
	respondJSON(w, http.StatusOK, detail)
}

// movieVideos returns trailers for id, or nil when the lookup fails so the
// field is omitted from the response.
func (h *Handler) movieVideos(ctx context.Context, id int64) []models.Video {
	if h.videos == nil {
		return nil
	}
	if videos, ok := h.videoCache.Get(id); ok {
		return videos
	}

	ctx, cancel := context.WithTimeout(ctx, videoFetchTimeout)
	defer cancel()
	videos, err := h.videos.GetMovieVideos(ctx, id)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("tmdb_id", id).Msg("Video lookup failed, omitting videos")
		return nil
	}
	if videos == nil {
		videos = []models.Video{}
	}
	h.videoCache.Set(id, videos)
	return videos
}
