// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session is the revocable proof that a token was issued. Only the token's
// storage hash is kept; the raw token never touches the database.
type Session struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	IsActive  bool
}

// NewSession creates a validated Session instance.
func NewSession(userID ulid.ULID, tokenHash string, expiresAt time.Time) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}

	return &Session{
		ID:        ulid.Make(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		IsActive:  true,
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt returns true if the session would be expired at the given
// time. Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// IsValidAt returns true if the session authenticates at the given time:
// still flagged active AND strictly before its expiry.
func (s *Session) IsValidAt(t time.Time) bool {
	return s.IsActive && !s.IsExpiredAt(t)
}

// SessionRepository manages session persistence. Multiple concurrent
// sessions per user are expected; there is no per-user uniqueness.
type SessionRepository interface {
	// Create stores a new session row.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash.
	// Returns ErrNotFound if absent.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Revoke flags the sessions matching the token hash inactive.
	// Idempotent: revoking an already-inactive or nonexistent session is
	// not an error.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeByUser flags all of a user's sessions inactive.
	RevokeByUser(ctx context.Context, userID ulid.ULID) error

	// DeleteExpired removes expired session rows and returns the count.
	// Housekeeping only; expired rows are never selected as valid either way.
	DeleteExpired(ctx context.Context) (int64, error)
}
