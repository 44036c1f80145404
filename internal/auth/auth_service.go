// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides authentication operations.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	codec    *TokenCodec
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a Service with a no-op logger.
// Returns an error if any required dependency is nil.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher, codec *TokenCodec) (*Service, error) {
	return NewServiceWithLogger(users, sessions, hasher, codec, slog.New(slog.DiscardHandler))
}

// NewServiceWithLogger creates a Service with the provided logger.
// Returns an error if any required dependency is nil.
func NewServiceWithLogger(users UserRepository, sessions SessionRepository, hasher PasswordHasher, codec *TokenCodec, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if codec == nil {
		return nil, oops.Errorf("token codec is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		codec:    codec,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// dummyPasswordHash is verified against when no matching user exists, so the
// unknown-email and wrong-password paths take comparable time. It is a hash
// of random bytes discarded at generation time, not a real credential.
//
//nolint:gosec // G101: fake hash for enumeration resistance, not a credential.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// invalidCredentials builds the deliberately generic login failure. Unknown
// email and wrong password must be indistinguishable to the caller.
func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
}

// Login authenticates a user by email and password and creates a session.
// Returns the public identity, the raw token, and any error.
func (s *Service) Login(ctx context.Context, email, password string) (*Identity, string, error) {
	if email == "" || password == "" {
		return nil, "", oops.Code("AUTH_MISSING_CREDENTIALS").Errorf("email and password are required")
	}

	user, lookupErr := s.users.GetByEmail(ctx, NormalizeEmail(email))

	// Pick the hash to verify against. Absent and deactivated users verify
	// against the dummy hash so response time stays comparable.
	targetHash := dummyPasswordHash
	userUsable := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else if user.IsActive {
		targetHash = user.PasswordHash
		userUsable = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userUsable {
			return nil, "", invalidCredentials()
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if !userUsable || !valid {
		return nil, "", invalidCredentials()
	}

	// Best effort: a failed timestamp update must not block the login.
	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("last-login update failed",
			"event", "last_login_update_failed",
			"user_id", user.ID.String(),
			"error", err.Error(),
		)
	}

	identity := user.Identity()
	token, err := s.issueSession(ctx, identity)
	if err != nil {
		return nil, "", err
	}
	return identity, token, nil
}

// SignupInput carries the fields accepted by Signup. Role defaults to staff
// when empty; Department is optional.
type SignupInput struct {
	Email      string
	Password   string
	Name       string
	Department string
	Role       string
}

// Signup registers a new user and creates a session, with the same token and
// session guarantees as Login. Unlike Login, validation failures report a
// specific, user-facing reason.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Identity, string, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, "", oops.Code("AUTH_MISSING_FIELDS").Errorf("email, password, and name are required")
	}

	email := NormalizeEmail(in.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, "", err
	}

	role := RoleStaff
	if in.Role != "" {
		parsed, err := ParseRole(in.Role)
		if err != nil {
			return nil, "", err
		}
		role = parsed
	}

	if violations := ValidatePassword(in.Password); len(violations) > 0 {
		return nil, "", oops.Code("AUTH_WEAK_PASSWORD").
			With("violations", violations).
			Errorf("%s", strings.Join(violations, ", "))
	}

	// Pre-check for the specific conflict message. The unique index on the
	// email column remains the authority; a concurrent insert between this
	// check and Create surfaces as ErrEmailTaken below.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", oops.Code("AUTH_EMAIL_TAKEN").Errorf("user with this email already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "check existing email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(email, hash, in.Name, in.Department, role)
	if err != nil {
		return nil, "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, "", oops.Code("AUTH_EMAIL_TAKEN").Errorf("user with this email already exists")
		}
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	identity := user.Identity()
	token, err := s.issueSession(ctx, identity)
	if err != nil {
		return nil, "", err
	}
	return identity, token, nil
}

// issueSession issues a token for the identity and persists the matching
// session row. The session expiry equals the token expiry.
func (s *Service) issueSession(ctx context.Context, identity *Identity) (string, error) {
	token, err := s.codec.Issue(identity)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	session, err := NewSession(identity.ID, HashForStorage(token), s.now().Add(s.codec.TTL()))
	if err != nil {
		return "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}
	return token, nil
}

// Logout revokes the session matching the token's storage hash. It is
// fail-soft by contract: revoking an already-revoked, expired, or unknown
// token is not an error, and infrastructure failures are logged but
// swallowed so logout never leaks session existence.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, HashForStorage(token)); err != nil {
		s.logger.Warn("session revoke failed",
			"event", "logout_revoke_failed",
			"error", err.Error(),
		)
	}
	return nil
}

// ValidateSession reports whether the token's session is still live: a row
// matching its storage hash that is active and unexpired. Fail-closed: any
// lookup error reads as "not authenticated".
func (s *Service) ValidateSession(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	session, err := s.sessions.GetByTokenHash(ctx, HashForStorage(token))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("session lookup failed",
				"event", "session_lookup_failed",
				"error", err.Error(),
			)
		}
		return false
	}
	return session.IsValidAt(s.now())
}

// GetUserByID returns the public identity for an active user, or (nil, nil)
// when the user is absent or deactivated.
func (s *Service) GetUserByID(ctx context.Context, id ulid.ULID) (*Identity, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("AUTH_USER_LOOKUP_FAILED").
			With("operation", "get user by id").
			With("user_id", id.String()).
			Wrap(err)
	}
	if !user.IsActive {
		return nil, nil
	}
	return user.Identity(), nil
}

// ListUsers returns all user accounts, for administrative screens.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, oops.Code("AUTH_USER_LIST_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	return users, nil
}

// HasUsers reports whether any user account exists. Used by the bootstrap
// flow to refuse creating a second initial admin.
func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, oops.Code("AUTH_USER_COUNT_FAILED").
			With("operation", "count users").
			Wrap(err)
	}
	return n > 0, nil
}

// UserUpdate carries optional administrative changes to a user. Nil fields
// are left untouched.
type UserUpdate struct {
	Name       *string
	Department *string
	Role       *string
	IsActive   *bool
}

// UpdateUser applies administrative changes to a user. Role strings are
// validated against the closed enumeration before touching storage.
func (s *Service) UpdateUser(ctx context.Context, id ulid.ULID, update UserUpdate) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_USER_NOT_FOUND").
				With("user_id", id.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("AUTH_USER_UPDATE_FAILED").
			With("operation", "get user by id").
			With("user_id", id.String()).
			Wrap(err)
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, oops.Code("AUTH_INVALID_NAME").Errorf("name cannot be empty")
		}
		user.Name = *update.Name
	}
	if update.Department != nil {
		user.Department = *update.Department
	}
	if update.Role != nil {
		role, err := ParseRole(*update.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, oops.Code("AUTH_USER_UPDATE_FAILED").
			With("operation", "update user").
			With("user_id", id.String()).
			Wrap(err)
	}

	// Pulling a user's access also pulls their live sessions.
	if update.IsActive != nil && !*update.IsActive {
		if err := s.sessions.RevokeByUser(ctx, id); err != nil {
			s.logger.Warn("session revoke on deactivation failed",
				"event", "deactivate_revoke_failed",
				"user_id", id.String(),
				"error", err.Error(),
			)
		}
	}

	return user, nil
}

// DeactivateUser is the delete-equivalent: it flags the account inactive and
// revokes its sessions. The row is never physically removed.
func (s *Service) DeactivateUser(ctx context.Context, id ulid.ULID) error {
	inactive := false
	_, err := s.UpdateUser(ctx, id, UserUpdate{IsActive: &inactive})
	return err
}
