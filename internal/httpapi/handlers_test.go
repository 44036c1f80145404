// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSignup(t *testing.T) {
	t.Run("creates account and returns token", func(t *testing.T) {
		api := newTestAPI(t)

		rec, envelope := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"email":      "new@example.com",
			"password":   "Str0ng!pass",
			"name":       "New Person",
			"department": "Legal",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, true, envelope["success"])

		data := envelope["data"].(map[string]any)
		assert.NotEmpty(t, data["token"])

		user := data["user"].(map[string]any)
		assert.Equal(t, "new@example.com", user["email"])
		assert.Equal(t, "staff", user["role"])
		assert.Nil(t, user["password_hash"], "hash must never appear in responses")
	})

	t.Run("duplicate email", func(t *testing.T) {
		api := newTestAPI(t)
		api.signup(t, "new@example.com", "")

		rec, envelope := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"email":    "new@example.com",
			"password": "Str0ng!pass",
			"name":     "Someone Else",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "user with this email already exists", envelope["error"])
	})

	t.Run("weak password", func(t *testing.T) {
		api := newTestAPI(t)

		rec, envelope := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"email":    "new@example.com",
			"password": "short",
			"name":     "New Person",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, envelope["error"], "at least 8 characters")
	})

	t.Run("missing fields", func(t *testing.T) {
		api := newTestAPI(t)

		rec, envelope := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"email": "new@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "email, password, and name are required", envelope["error"])
	})

	t.Run("invalid body", func(t *testing.T) {
		api := newTestAPI(t)

		rec, envelope := api.do(t, http.MethodPost, "/api/auth/signup", "", "not-json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", envelope["error"])
	})
}

func TestHandleLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		api := newTestAPI(t)
		api.signup(t, "kim@example.com", "")

		rec, envelope := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "kim@example.com",
			"password": "Str0ng!pass",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		data := envelope["data"].(map[string]any)
		assert.NotEmpty(t, data["token"])
	})

	t.Run("wrong password and unknown email share one message", func(t *testing.T) {
		api := newTestAPI(t)
		api.signup(t, "kim@example.com", "")

		recWrong, envWrong := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "kim@example.com",
			"password": "Wrong!pass1",
		})
		recUnknown, envUnknown := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "Str0ng!pass",
		})

		assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
		assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
		assert.Equal(t, "invalid email or password", envWrong["error"])
		assert.Equal(t, envWrong["error"], envUnknown["error"])
	})

	t.Run("missing credentials", func(t *testing.T) {
		api := newTestAPI(t)

		rec, _ := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "kim@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleLogout(t *testing.T) {
	t.Run("revokes the session", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.signup(t, "kim@example.com", "")

		rec, envelope := api.do(t, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, envelope["success"])

		recMe, _ := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, recMe.Code)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		api := newTestAPI(t)

		rec, envelope := api.do(t, http.MethodPost, "/api/auth/logout", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No token provided", envelope["error"])
	})

	t.Run("succeeds with a garbage token", func(t *testing.T) {
		api := newTestAPI(t)

		rec, _ := api.do(t, http.MethodPost, "/api/auth/logout", "not.a.token", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandleListUsers(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "staff@example.com", "staff")
	_, adminToken := api.signup(t, "admin@example.com", "admin")

	rec, envelope := api.do(t, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := envelope["data"].(map[string]any)
	users := data["users"].([]any)
	assert.Len(t, users, 2)

	for _, raw := range users {
		user := raw.(map[string]any)
		assert.Nil(t, user["password_hash"], "hash must never appear in responses")
	}
}

func TestHandleUpdateUser(t *testing.T) {
	t.Run("admin promotes a user", func(t *testing.T) {
		api := newTestAPI(t)
		staff, _ := api.signup(t, "staff@example.com", "staff")
		_, adminToken := api.signup(t, "admin@example.com", "admin")

		rec, envelope := api.do(t, http.MethodPatch, "/api/users/"+staff.ID.String(), adminToken, map[string]any{
			"role": "manager",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		data := envelope["data"].(map[string]any)
		user := data["user"].(map[string]any)
		assert.Equal(t, "manager", user["role"])
	})

	t.Run("invalid role", func(t *testing.T) {
		api := newTestAPI(t)
		staff, _ := api.signup(t, "staff@example.com", "staff")
		_, adminToken := api.signup(t, "admin@example.com", "admin")

		rec, envelope := api.do(t, http.MethodPatch, "/api/users/"+staff.ID.String(), adminToken, map[string]any{
			"role": "root",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid role specified", envelope["error"])
	})

	t.Run("invalid user id", func(t *testing.T) {
		api := newTestAPI(t)
		_, adminToken := api.signup(t, "admin@example.com", "admin")

		rec, envelope := api.do(t, http.MethodPatch, "/api/users/not-a-ulid", adminToken, map[string]any{
			"role": "manager",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid user ID", envelope["error"])
	})
}

func TestHandleDeactivateUser(t *testing.T) {
	api := newTestAPI(t)
	staff, staffToken := api.signup(t, "staff@example.com", "staff")
	_, adminToken := api.signup(t, "admin@example.com", "admin")

	rec, envelope := api.do(t, http.MethodDelete, "/api/users/"+staff.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])

	// The deactivated user's session no longer authenticates.
	recMe, _ := api.do(t, http.MethodGet, "/api/auth/me", staffToken, nil)
	assert.Equal(t, http.StatusUnauthorized, recMe.Code)

	// And their credentials no longer log in.
	recLogin, _ := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "staff@example.com",
		"password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusUnauthorized, recLogin.Code)
}
