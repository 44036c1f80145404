// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi

import (
	"context"

	"github.com/documind/documind/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// withIdentity attaches the authenticated identity to the request context.
func withIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated identity attached by the
// Authenticate middleware, or nil when the request is unauthenticated.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}
