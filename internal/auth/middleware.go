// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/logging"
)

type contextKey string

// ClaimsContextKey holds *Claims for authenticated requests.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces bearer authentication and the access policy. A nil
// manager disables it.
type Middleware struct {
	jwtManager *JWTManager
	enforcer   *Enforcer
}

// NewMiddleware creates the middleware. jwtManager may be nil. Without an
// enforcer only the admin role is let through.
func NewMiddleware(jwtManager *JWTManager, enforcer *Enforcer) *Middleware {
	return &Middleware{jwtManager: jwtManager, enforcer: enforcer}
}

// Enabled reports whether requests are checked.
func (m *Middleware) Enabled() bool {
	return m != nil && m.jwtManager != nil
}

// Authorize rejects requests without a valid token (401) and requests whose
// role the policy does not allow on the path and method (403).
func (m *Middleware) Authorize() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !m.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="marquee"`)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := m.jwtManager.ValidateToken(token)
			if err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
				w.Header().Set("WWW-Authenticate", `Bearer realm="marquee", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !m.allowed(r, claims) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) allowed(r *http.Request, claims *Claims) bool {
	if m.enforcer == nil {
		return claims.Role == RoleAdmin
	}
	ok, err := m.enforcer.Allowed(claims.Role, r.URL.Path, r.Method)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("role", claims.Role).Msg("Policy evaluation failed")
		return false
	}
	return ok
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
