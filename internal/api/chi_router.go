// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/marquee/internal/auth"
	"github.com/tomtom215/marquee/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *auth.Middleware
	websocket     http.Handler
}

// NewRouter creates a router. authMW may be nil (or disabled) to leave the
// sync endpoint open; ws may be nil to skip the websocket route.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authMW *auth.Middleware, ws http.Handler) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	if authMW == nil {
		authMW = auth.NewMiddleware(nil, nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		auth:          authMW,
		websocket:     ws,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.RequestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.With(router.chiMiddleware.RateLimitCustom(RateLimitHealth)).
			Get("/health", router.handler.Health)

		// Catalog reads
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Get("/categories", router.handler.Categories)
			r.Get("/movies", router.handler.ListMovies)
			r.Get("/movies/search", router.handler.SearchMovies)
			r.Get("/movies/{id}", router.handler.MovieDetail)
			r.Get("/sync/status", router.handler.SyncStatus)
		})

		// Reviews answer 405 themselves for non-POST methods
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitReviews)).
			HandleFunc("/reviews", router.handler.GenerateReview)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitSync))
			r.Use(router.auth.Authorize())
			r.Post("/sync", router.handler.TriggerSync)
		})

		if router.websocket != nil {
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).
				Handle("/ws", router.websocket)
		}
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
