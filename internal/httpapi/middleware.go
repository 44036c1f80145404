// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/documind/documind/internal/auth"
)

// Authenticate guards a route group with bearer-token authentication.
//
// Each request passes five checks in order: extract the bearer token, verify
// its signature and expiry, confirm the server-side session is still live,
// load the user behind it, and attach the resulting identity to the request
// context. Any miss short-circuits with a 401 envelope; an unexpected panic
// in the chain is caught and answered with a 500 rather than leaking a stack
// trace on the authentication path.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("panic during authentication",
					"event", "auth_panic",
					"panic", rec,
					"path", r.URL.Path,
				)
				writeError(w, http.StatusInternalServerError, "Authentication failed")
			}
		}()

		token, ok := auth.ExtractBearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := h.codec.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// The signed token alone is not enough: logout and deactivation
		// revoke the session row, and that revocation must win.
		if !h.service.ValidateSession(r.Context(), token) {
			h.metrics.RecordSessionCheck("invalid")
			writeError(w, http.StatusUnauthorized, "Session expired or invalid")
			return
		}
		h.metrics.RecordSessionCheck("valid")

		userID, err := claims.UserID()
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		identity, err := h.service.GetUserByID(r.Context(), userID)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		if identity == nil {
			writeError(w, http.StatusUnauthorized, "Session expired or invalid")
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// RequireRole guards a route group with a role allowlist. It must run after
// Authenticate.
func (h *Handler) RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !slices.Contains(roles, identity.Role) {
				h.logger.Warn("role denied",
					"event", "role_denied",
					"user_id", identity.ID.String(),
					"role", string(identity.Role),
					"path", r.URL.Path,
				)
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one line per request with method, path, status, and
// duration.
func (h *Handler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
