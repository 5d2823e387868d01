// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package supervisor runs Marquee's long-lived components under suture v4.

	marquee
	├── messaging-layer
	│   ├── websocket-hub
	│   ├── event-forwarder
	│   └── sync-manager
	└── api-layer
	    └── http-server

Services that return an error are restarted with backoff; services return
ctx.Err() on shutdown. Supervisor events are logged through sutureslog into
the zerolog logger.

The service adapters live in the services subpackage.
*/
package supervisor
