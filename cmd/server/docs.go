// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

// @title Marquee API
// @version 1.0
// @description Movie catalog synchronized from TMDB, with paginated discovery and AI-written reviews.
// @description
// @description ## Authentication
// @description
// @description POST /sync requires an admin bearer token when the server has a JWT secret.
// @description Tokens are issued offline with `marquee -issue-token SUBJECT`.
// @description
// @description ## Errors
// @description
// @description Catalog list endpoints answer `{"message": "..."}`; detail, review and sync
// @description endpoints answer `{"error": "..."}`. Internal details are never returned.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/marquee/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token: "Bearer <jwt>".
//
// @tag.name Catalog
// @tag.description Categories, paginated lists, search and movie details
//
// @tag.name Reviews
// @tag.description AI-generated movie reviews
//
// @tag.name Sync
// @tag.description Catalog synchronization from TMDB
//
// @tag.name Core
// @tag.description Health checks

import _ "github.com/tomtom215/marquee/docs" // generated swagger docs
