// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/documind/documind/internal/auth"
)

// userView is the administrative projection of a user. Unlike Identity it
// carries account state, but never the password hash.
type userView struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Department string     `json:"department,omitempty"`
	Role       auth.Role  `json:"role"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

func toUserView(u *auth.User) userView {
	return userView{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Department: u.Department,
		Role:       u.Role,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
		LastLogin:  u.LastLogin,
	}
}

// handleListUsers handles GET /api/users.
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	writeData(w, http.StatusOK, map[string][]userView{"users": views})
}

// updateUserRequest is the PATCH /api/users/{id} body. Absent fields are
// left untouched.
type updateUserRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
	IsActive   *bool   `json:"is_active"`
}

// handleUpdateUser handles PATCH /api/users/{id}.
func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, auth.UserUpdate{
		Name:       req.Name,
		Department: req.Department,
		Role:       req.Role,
		IsActive:   req.IsActive,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]userView{"user": toUserView(user)})
}

// handleDeactivateUser handles DELETE /api/users/{id}. Deactivation stands
// in for deletion; the row is retained.
func (h *Handler) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.DeactivateUser(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "User deactivated"})
}
