// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the token and session lifetime used when the
// configuration does not override it.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the signed payload carried by a bearer token.
type Claims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the token subject as a user ID.
func (c *Claims) UserID() (ulid.ULID, error) {
	id, err := ulid.Parse(c.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").
			With("subject", c.Subject).
			Wrap(err)
	}
	return id, nil
}

// TokenCodec issues and verifies HMAC-signed, time-bound session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a TokenCodec. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, oops.Code("AUTH_SECRET_MISSING").Errorf("signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue encodes the identity into a signed token expiring after the
// configured TTL.
func (c *TokenCodec) Issue(identity *Identity) (string, error) {
	if identity == nil {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").Errorf("identity cannot be nil")
	}

	now := c.now()
	claims := &Claims{
		Email:      identity.Email,
		Role:       string(identity.Role),
		Department: identity.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "sign token").
			Wrap(err)
	}
	return signed, nil
}

// Verify decodes the token and checks its signature and expiry.
//
// Error codes:
//   - AUTH_TOKEN_EXPIRED when the embedded expiry has passed
//   - AUTH_TOKEN_INVALID when the signature or structure is wrong
//   - AUTH_TOKEN_VERIFY_FAILED for any other decode error
//
// Callers must treat all three as "unauthenticated" but may log them
// differently.
func (c *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, oops.Code("AUTH_TOKEN_EXPIRED").Errorf("token has expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, oops.Code("AUTH_TOKEN_INVALID").Errorf("invalid token")
		default:
			return nil, oops.Code("AUTH_TOKEN_VERIFY_FAILED").Wrap(err)
		}
	}
	if !token.Valid {
		return nil, oops.Code("AUTH_TOKEN_INVALID").Errorf("invalid token")
	}
	return claims, nil
}

// HashForStorage computes the deterministic sha256 digest of a raw token.
// The digest is the session lookup key; it is unsalted so the same token
// always maps to the same row, and it is never reversible to the token.
func HashForStorage(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// ExtractBearerToken returns the token from a "Bearer <token>" authorization
// header value. Malformed headers are a normal input, not an error: the
// second return is false and no token is produced.
func ExtractBearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
