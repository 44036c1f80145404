// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/documind/documind/internal/auth"
)

// credentialsRequest is the login request body.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signupRequest is the signup request body.
type signupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// sessionResponse is the body returned by login and signup.
type sessionResponse struct {
	User  *auth.Identity `json:"user"`
	Token string         `json:"token"`
}

// handleLogin handles POST /api/auth/login.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordLogin("failure")
		writeServiceError(w, h.logger, err)
		return
	}

	h.metrics.RecordLogin("success")
	writeData(w, http.StatusOK, sessionResponse{User: identity, Token: token})
}

// handleSignup handles POST /api/auth/signup.
func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, token, err := h.service.Signup(r.Context(), auth.SignupInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.metrics.RecordSignup()
	writeData(w, http.StatusOK, sessionResponse{User: identity, Token: token})
}

// handleLogout handles POST /api/auth/logout. Logout is fail-soft: once a
// token is presented it succeeds whether or not that token maps to a live
// session.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.ExtractBearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, http.StatusBadRequest, "No token provided")
		return
	}
	_ = h.service.Logout(r.Context(), token)
	writeData(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// handleMe handles GET /api/auth/me.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeData(w, http.StatusOK, map[string]*auth.Identity{"user": identity})
}
