// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package auth protects administrative endpoints with HS256 bearer tokens.

Only one role exists: admin. Tokens are minted offline with the same secret
the server is configured with (see the -issue-token flag of the server) and
presented as:

	Authorization: Bearer <token>

Which role may call which path is decided by a casbin RBAC model over
(role, path, method); DefaultPolicy grants admin POST /api/v1/sync.

When no secret is configured the middleware is a pass-through.
*/
package auth
