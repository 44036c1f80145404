// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documind/documind/internal/auth"
	"github.com/documind/documind/pkg/errutil"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts every defined role", func(t *testing.T) {
		for _, s := range []string{"staff", "manager", "admin", "auditor"} {
			role, err := auth.ParseRole(s)
			require.NoError(t, err)
			assert.Equal(t, auth.Role(s), role)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := auth.ParseRole("superuser")
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_ROLE")
	})

	t.Run("rejects empty role", func(t *testing.T) {
		_, err := auth.ParseRole("")
		assert.Error(t, err)
	})

	t.Run("is case sensitive", func(t *testing.T) {
		_, err := auth.ParseRole("Admin")
		assert.Error(t, err)
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "kim@example.com", auth.NormalizeEmail("  Kim@Example.COM "))
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@sub.domain.org", "x+tag@example.com"}
	for _, email := range valid {
		assert.NoError(t, auth.ValidateEmail(email), email)
	}

	invalid := []string{"", "plain", "@example.com", "a@b", "a b@example.com", "a@ex ample.com"}
	for _, email := range invalid {
		assert.Error(t, auth.ValidateEmail(email), email)
	}
}

func TestNewUser(t *testing.T) {
	t.Run("creates active user with normalized email", func(t *testing.T) {
		user, err := auth.NewUser("Kim@Example.COM", "hash", "Kim", "Legal", auth.RoleStaff)
		require.NoError(t, err)

		assert.Equal(t, "kim@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.NotZero(t, user.ID)
		assert.Nil(t, user.LastLogin)
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("department is optional", func(t *testing.T) {
		user, err := auth.NewUser("kim@example.com", "hash", "Kim", "", auth.RoleStaff)
		require.NoError(t, err)
		assert.Empty(t, user.Department)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := auth.NewUser("not-an-email", "hash", "Kim", "", auth.RoleStaff)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_EMAIL")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := auth.NewUser("kim@example.com", "hash", "", "", auth.RoleStaff)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_NAME")
	})

	t.Run("rejects empty password hash", func(t *testing.T) {
		_, err := auth.NewUser("kim@example.com", "", "Kim", "", auth.RoleStaff)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := auth.NewUser("kim@example.com", "hash", "Kim", "", auth.Role("root"))
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_ROLE")
	})
}

func TestUser_Identity(t *testing.T) {
	user, err := auth.NewUser("kim@example.com", "hash", "Kim", "Legal", auth.RoleManager)
	require.NoError(t, err)

	identity := user.Identity()
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, user.Email, identity.Email)
	assert.Equal(t, user.Name, identity.Name)
	assert.Equal(t, user.Role, identity.Role)
	assert.Equal(t, user.Department, identity.Department)
}
