// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package api provides the HTTP surface of Marquee using the Chi router.

Routes:

	GET  /api/v1/health              store ping and version
	GET  /api/v1/categories          seeded categories with movie counts
	GET  /api/v1/movies              ?category=&page= one page of a category
	GET  /api/v1/movies/search       ?query=&page= title search over the store
	GET  /api/v1/movies/{id}         stored movie plus live trailers
	POST /api/v1/reviews             generated one-paragraph review
	POST /api/v1/sync                run a full synchronization (admin)
	GET  /api/v1/sync/status         running flag and last run report
	GET  /api/v1/ws                  websocket stream of sync events
	GET  /metrics                    Prometheus exposition
	GET  /swagger/*                  OpenAPI document and Swagger UI

Error bodies keep the shapes existing clients parse: the catalog listing
endpoints answer {"message": ...} while detail, review and sync answer
{"error": ...}. Internal error details are logged, never returned.

Middleware order (outermost first): request id, real ip, panic recovery,
CORS, request logging, Prometheus metrics, then per-group rate limits.
*/
package api
