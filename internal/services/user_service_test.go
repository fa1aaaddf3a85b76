package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	t.Run("Success registration", func(t *testing.T) {
		user, err := service.Register("alice", "a@x.com", "pw")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "a@x.com", user.Email)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("Stored password is hashed", func(t *testing.T) {
		var hash string
		err := db.QueryRow("SELECT password_hash FROM users WHERE email = ?", "a@x.com").Scan(&hash)
		require.NoError(t, err)
		assert.NotEqual(t, "pw", hash)
		// bcrypt output is always 60 bytes
		assert.Len(t, hash, 60)
	})

	t.Run("Error: duplicate email", func(t *testing.T) {
		_, err := service.Register("alice2", "a@x.com", "other")
		assert.ErrorIs(t, err, ErrUserExists)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", "a@x.com").Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	registered, err := service.Register("bob", "b@x.com", "secret")
	require.NoError(t, err)

	t.Run("Success with correct credentials", func(t *testing.T) {
		user, err := service.Authenticate("b@x.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, "bob", user.Username)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("Error: unknown email", func(t *testing.T) {
		_, err := service.Authenticate("nobody@x.com", "secret")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Error: wrong password", func(t *testing.T) {
		_, err := service.Authenticate("b@x.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	registered, err := service.Register("carol", "c@x.com", "pw")
	require.NoError(t, err)

	user, err := service.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)
	assert.Empty(t, user.PostIDs)

	_, err = service.GetUserByID("missing-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
