// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documind/documind/internal/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		api := newTestAPI(t)

		rec, envelope := api.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, false, envelope["success"])
		assert.Equal(t, "Authentication required", envelope["error"])
	})

	t.Run("malformed header", func(t *testing.T) {
		api := newTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authentication required")
	})

	t.Run("garbage token", func(t *testing.T) {
		api := newTestAPI(t)

		rec, envelope := api.do(t, http.MethodGet, "/api/auth/me", "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid or expired token", envelope["error"])
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		api := newTestAPI(t)

		other, err := auth.NewTokenCodec("other-secret", time.Hour)
		require.NoError(t, err)
		_, forged, err := forgeIdentityToken(other)
		require.NoError(t, err)

		rec, envelope := api.do(t, http.MethodGet, "/api/auth/me", forged, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid or expired token", envelope["error"])
	})

	t.Run("valid token without session", func(t *testing.T) {
		api := newTestAPI(t)
		_, forged, err := forgeIdentityToken(api.codec)
		require.NoError(t, err)

		rec, envelope := api.do(t, http.MethodGet, "/api/auth/me", forged, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Session expired or invalid", envelope["error"])
	})

	t.Run("revoked session", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.signup(t, "kim@example.com", "")

		_, _ = api.do(t, http.MethodPost, "/api/auth/logout", token, nil)

		rec, envelope := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Session expired or invalid", envelope["error"])
	})

	t.Run("expired session", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.signup(t, "kim@example.com", "")

		api.sessions.sessions[auth.HashForStorage(token)].ExpiresAt = time.Now().Add(-time.Minute)

		rec, envelope := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Session expired or invalid", envelope["error"])
	})

	t.Run("deactivated user", func(t *testing.T) {
		api := newTestAPI(t)
		identity, token := api.signup(t, "kim@example.com", "")

		user := api.users.users[identity.Email]
		user.IsActive = false
		// Session deliberately left live: deactivation alone must lock out.
		api.sessions.sessions[auth.HashForStorage(token)].IsActive = true

		rec, envelope := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Session expired or invalid", envelope["error"])
	})

	t.Run("valid session passes", func(t *testing.T) {
		api := newTestAPI(t)
		identity, token := api.signup(t, "kim@example.com", "")

		rec, envelope := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, envelope["success"])

		data := envelope["data"].(map[string]any)
		user := data["user"].(map[string]any)
		assert.Equal(t, identity.Email, user["email"])
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("staff denied on admin routes", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.signup(t, "staff@example.com", "staff")

		rec, envelope := api.do(t, http.MethodGet, "/api/users", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Insufficient permissions", envelope["error"])
	})

	t.Run("auditor denied on admin routes", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.signup(t, "audit@example.com", "auditor")

		rec, _ := api.do(t, http.MethodGet, "/api/users", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.signup(t, "admin@example.com", "admin")

		rec, envelope := api.do(t, http.MethodGet, "/api/users", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, envelope["success"])
	})

	t.Run("unauthenticated denied before role check", func(t *testing.T) {
		api := newTestAPI(t)

		rec, envelope := api.do(t, http.MethodGet, "/api/users", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authentication required", envelope["error"])
	})
}

// forgeIdentityToken issues a token for a user that was never registered.
func forgeIdentityToken(codec *auth.TokenCodec) (*auth.Identity, string, error) {
	identity := &auth.Identity{
		ID:    ulid.Make(),
		Email: "ghost@example.com",
		Name:  "Ghost",
		Role:  auth.RoleAdmin,
	}
	token, err := codec.Issue(identity)
	return identity, token, err
}
