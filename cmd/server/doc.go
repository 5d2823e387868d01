// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package main is the entry point for the Marquee server.

Marquee mirrors TMDB movie lists into a local store (DuckDB by default,
PostgreSQL via pgx), serves them over a paginated HTTP API and writes short
AI-generated reviews through an OpenAI-compatible backend.

# Application Architecture

	RootSupervisor ("marquee")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (sync event stream)
	│   ├── Event Forwarder (watermill bus -> hub)
	│   └── Sync Manager (periodic synchronization, optional)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Initialization order:

 1. Configuration: Koanf v2 defaults, YAML file, environment variables
 2. Logging: zerolog from the logging section
 3. Store: schema creation and category seeding
 4. TMDB source: rate limited client behind a circuit breaker
 5. Event bus, synchronizer and sync manager
 6. Review service with optional BadgerDB cache
 7. WebSocket hub, event forwarder, HTTP router
 8. Supervisor tree until SIGINT or SIGTERM

# Flags

	-issue-token SUBJECT   print an admin bearer token for POST /api/v1/sync and exit
	-version               print the version and exit

# Example

	export TMDB_API_KEY=...
	export OPENAI_API_KEY=...
	export JWT_SECRET=$(openssl rand -base64 48)
	./marquee
	curl -X POST -H "Authorization: Bearer $(./marquee -issue-token ops)" \
	  http://localhost:3000/api/v1/sync
*/
package main
