// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/documind/documind/internal/auth"
	"github.com/documind/documind/internal/observability"
)

// Handler bundles the dependencies shared by all HTTP handlers.
type Handler struct {
	service *auth.Service
	codec   *auth.TokenCodec
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandler creates a Handler. Returns an error if any dependency is nil.
func NewHandler(service *auth.Service, codec *auth.TokenCodec, metrics *observability.Metrics, logger *slog.Logger) (*Handler, error) {
	if service == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if codec == nil {
		return nil, oops.Errorf("token codec is required")
	}
	if metrics == nil {
		return nil, oops.Errorf("metrics are required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		service: service,
		codec:   codec,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Router assembles the API routes. The credential endpoints sit behind the
// given rate limiter; everything under Authenticate requires a live session.
func (h *Handler) Router(limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(h.RequestLogger)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if limiter != nil {
					r.Use(limiter.Middleware())
				}
				r.Post("/signup", h.handleSignup)
				r.Post("/login", h.handleLogin)
			})

			// Logout is deliberately outside Authenticate: revoking with an
			// expired or malformed token still answers 200.
			r.Post("/logout", h.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(h.Authenticate)
				r.Get("/me", h.handleMe)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.Authenticate)
			r.Use(h.RequireRole(auth.RoleAdmin))
			r.Get("/", h.handleListUsers)
			r.Patch("/{id}", h.handleUpdateUser)
			r.Delete("/{id}", h.handleDeactivateUser)
		})
	})

	return r
}
