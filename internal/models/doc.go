// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package models defines the catalog rows and HTTP payloads shared by the
store, the synchronizer and the API.

Catalog models mirror the store tables:

  - Category: a TMDB movie list seeded from configuration
  - Movie, Genre, Collection, ProductionCompany: synchronized metadata
  - MovieDetail: a movie with its associations and live trailers
  - MovieSummary, CategoryPage: list and search windows

JSON ids are TMDB ids; store surrogate keys never leave the process.
*/
package models
