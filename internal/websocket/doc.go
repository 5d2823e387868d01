// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package websocket streams catalog synchronization events to connected clients.

A single Hub owns the client set and fans out messages; each Client runs a
read pump (pings, close detection) and a write pump (JSON frames, keepalive).

	┌──────────┐
	│   Hub    │ ← BroadcastJSON / BroadcastRaw
	└────┬─────┘
	     │
	┌────┴─────┬─────────┐
	│ Client1  │ Client2 │ ...
	└──────────┴─────────┘

Message types:

  - sync_progress: one category finished (data is the category report)
  - sync_completed: a full run finished (data is the run report)
  - ping / pong: client keepalive

Slow clients whose send buffer is full are disconnected rather than allowed
to block the hub.
*/
package websocket
