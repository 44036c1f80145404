// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role is the closed set of access levels a user can hold.
type Role string

// Valid roles. Unknown role strings are rejected at the data-model boundary,
// not just at compile time.
const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
	RoleAuditor Role = "auditor"
)

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStaff, RoleManager, RoleAdmin, RoleAuditor:
		return Role(s), nil
	}
	return "", oops.Code("AUTH_INVALID_ROLE").
		With("role", s).
		Errorf("invalid role specified")
}

// emailRegex matches the shape local@domain.tld without attempting full
// RFC 5322 validation; the original system used the same loose check.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lower-cases and trims an email address. Emails are unique
// by their normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the shape of an email address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("invalid email format")
	}
	return nil
}

// User represents a user account. Deactivation (IsActive=false) is the
// delete-equivalent; rows are never physically removed by this subsystem.
type User struct {
	ID           ulid.ULID
	Email        string
	PasswordHash string
	Name         string
	Department   string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// NewUser creates a validated User with a normalized email.
// Department is optional and may be empty.
func NewUser(email, passwordHash, name, department string, role Role) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	if name == "" {
		return nil, oops.Code("AUTH_INVALID_NAME").Errorf("name cannot be empty")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Department:   department,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Identity is the public view of a user, safe to return to callers and to
// embed in token claims. It never carries the password hash.
type Identity struct {
	ID         ulid.ULID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
}

// Identity returns the public view of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Department: u.Department,
	}
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns an error wrapping ErrEmailTaken when
	// the unique email constraint is violated.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by normalized email (case-insensitive).
	// Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*User, error)

	// Count returns the total number of user rows.
	Count(ctx context.Context) (int, error)

	// Update persists role, name, department, active flag, and password hash
	// changes for an existing user.
	Update(ctx context.Context, user *User) error

	// UpdateLastLogin sets the last-login timestamp.
	UpdateLastLogin(ctx context.Context, id ulid.ULID, at time.Time) error
}
