// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

// Package auth provides session-based authentication for DocuMind.
//
// # Domain Types
//
// Domain types (User, Session) should be created using their respective
// constructors:
//   - NewUser - creates a User with a normalized email and validated role
//   - NewSession - creates a Session with a validated owner and expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service coordinates the domain operations: login, signup, logout, session
// validation, and user administration. It is created with NewService or
// NewServiceWithLogger, which validate dependencies.
//
// # Tokens
//
// TokenCodec issues and verifies signed bearer tokens. Raw tokens are never
// persisted; sessions store a deterministic digest produced by
// HashForStorage so a token can be revoked without keeping a
// bearer-equivalent secret in the database.
package auth
