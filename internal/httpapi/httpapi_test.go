// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/documind/documind/internal/auth"
	"github.com/documind/documind/internal/httpapi"
	"github.com/documind/documind/internal/observability"
)

// memUserRepo is an in-memory UserRepository for handler tests.
type memUserRepo struct {
	users map[string]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*auth.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *auth.User) error {
	if _, exists := m.users[user.Email]; exists {
		return auth.ErrEmailTaken
	}
	m.users[user.Email] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	if u, ok := m.users[email]; ok {
		userCopy := *u
		return &userCopy, nil
	}
	return nil, auth.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]*auth.User, error) {
	var users []*auth.User
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *memUserRepo) Count(_ context.Context) (int, error) {
	return len(m.users), nil
}

func (m *memUserRepo) Update(_ context.Context, user *auth.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *memUserRepo) UpdateLastLogin(_ context.Context, _ ulid.ULID, _ time.Time) error {
	return nil
}

// memSessionRepo is an in-memory SessionRepository keyed by token hash.
type memSessionRepo struct {
	sessions map[string]*auth.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*auth.Session)}
}

func (m *memSessionRepo) Create(_ context.Context, session *auth.Session) error {
	m.sessions[session.TokenHash] = session
	return nil
}

func (m *memSessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	if s, ok := m.sessions[tokenHash]; ok {
		return s, nil
	}
	return nil, auth.ErrNotFound
}

func (m *memSessionRepo) Revoke(_ context.Context, tokenHash string) error {
	if s, ok := m.sessions[tokenHash]; ok {
		s.IsActive = false
	}
	return nil
}

func (m *memSessionRepo) RevokeByUser(_ context.Context, userID ulid.ULID) error {
	for _, s := range m.sessions {
		if s.UserID == userID {
			s.IsActive = false
		}
	}
	return nil
}

func (m *memSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

// testAPI bundles a running router with its backing stores.
type testAPI struct {
	router   http.Handler
	service  *auth.Service
	users    *memUserRepo
	sessions *memSessionRepo
	codec    *auth.TokenCodec
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	codec, err := auth.NewTokenCodec("test-secret", time.Hour)
	require.NoError(t, err)

	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	service, err := auth.NewService(users, sessions, auth.NewBcryptHasher(bcrypt.MinCost), codec)
	require.NoError(t, err)

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	handler, err := httpapi.NewHandler(service, codec, metrics, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return &testAPI{
		router:   handler.Router(nil),
		service:  service,
		users:    users,
		sessions: sessions,
		codec:    codec,
	}
}

// signup registers a user through the service and returns its token.
func (a *testAPI) signup(t *testing.T, email, role string) (identity *auth.Identity, token string) {
	t.Helper()
	identity, token, err := a.service.Signup(context.Background(), auth.SignupInput{
		Email:    email,
		Password: "Str0ng!pass",
		Name:     "Test Person",
		Role:     role,
	})
	require.NoError(t, err)
	return identity, token
}

// do executes a request against the router and decodes the envelope.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}
