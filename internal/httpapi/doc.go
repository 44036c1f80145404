// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

// Package httpapi exposes the authentication service over HTTP.
//
// All responses share one JSON envelope:
//
//	{"success": true, "data": {...}}
//	{"success": false, "error": "message"}
//
// The router wires three layers:
//
//   - public credential endpoints (signup, login) behind a per-client
//     rate limiter
//   - authenticated endpoints behind the Authenticate middleware, which
//     verifies the bearer token, checks the server-side session, and
//     loads the current user
//   - admin endpoints additionally behind RequireRole
package httpapi
