// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when a user insert hits the unique email
// constraint. Repositories translate the storage-level violation into this
// sentinel so the service can report the conflict precisely.
var ErrEmailTaken = errors.New("email already registered")
