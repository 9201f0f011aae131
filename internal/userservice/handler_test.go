package userservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koyasong/bloghive/internal/common"
)

func setupUserService(t *testing.T) *UserService {
	db := common.TestDB("file://../../migrations", t)
	return NewUserService(db, common.NewCache(5*time.Minute, 10*time.Minute))
}

func TestCreateUser(t *testing.T) {
	s := setupUserService(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
		errField string
	}{
		{
			name:     "valid user",
			username: "testuser",
			email:    "testuser@example.com",
			password: "Password123!",
		},
		{
			name:     "duplicate username",
			username: "testuser",
			email:    "other@example.com",
			password: "Password123!",
			wantErr:  ErrDuplicateUsername,
		},
		{
			name:     "duplicate email",
			username: "otheruser",
			email:    "testuser@example.com",
			password: "Password123!",
			wantErr:  ErrDuplicateEmail,
		},
		{
			name:     "invalid email",
			username: "newuser",
			email:    "not-an-email",
			password: "Password123!",
			errField: "email",
		},
		{
			name:     "password too short",
			username: "newuser",
			email:    "newuser@example.com",
			password: "Pw1!",
			errField: "password",
		},
		{
			name:     "empty username",
			username: "",
			email:    "newuser@example.com",
			password: "Password123!",
			errField: "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.CreateUser(context.Background(), tt.username, tt.email, tt.password)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errField != "":
				var validationErr common.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Errors, tt.errField)
			default:
				require.NoError(t, err)
				assert.NotZero(t, u.ID)
				assert.Equal(t, tt.username, u.Username)
				assert.Equal(t, tt.email, u.Email)
			}
		})
	}
}

func TestLoginUser(t *testing.T) {
	s := setupUserService(t)

	_, err := s.CreateUser(context.Background(), "testuser", "testuser@example.com", "Password123!")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := s.LoginUser(context.Background(), "testuser", "Password123!")
		require.NoError(t, err)

		assert.Len(t, token.AccessTokenPlain, 26)
		assert.Len(t, token.RefreshTokenPlain, 26)
		assert.NotEqual(t, token.AccessTokenPlain, token.RefreshTokenPlain)
		assert.WithinDuration(t, time.Now().Add(AccessTokenTime), token.AccessTokenExpiry, time.Minute)
		assert.WithinDuration(t, time.Now().Add(RefreshTokenTime), token.RefreshTokenExpiry, time.Minute)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.LoginUser(context.Background(), "testuser", "WrongPassword123!")
		assert.ErrorIs(t, err, ErrAuthenticationFailure)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := s.LoginUser(context.Background(), "nosuchuser", "Password123!")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetUserByAccessToken(t *testing.T) {
	s := setupUserService(t)

	u, err := s.CreateUser(context.Background(), "testuser", "testuser@example.com", "Password123!")
	require.NoError(t, err)

	token, err := s.LoginUser(context.Background(), "testuser", "Password123!")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		got, err := s.GetUserByAccessToken(context.Background(), token.AccessTokenPlain)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "testuser", got.Username)
	})

	t.Run("cached lookup returns the same user", func(t *testing.T) {
		got, err := s.GetUserByAccessToken(context.Background(), token.AccessTokenPlain)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := s.GetUserByAccessToken(context.Background(), "too-short")

		var validationErr common.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, "token")
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := s.GetUserByAccessToken(context.Background(), "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLogoutUser(t *testing.T) {
	s := setupUserService(t)

	_, err := s.CreateUser(context.Background(), "testuser", "testuser@example.com", "Password123!")
	require.NoError(t, err)

	token, err := s.LoginUser(context.Background(), "testuser", "Password123!")
	require.NoError(t, err)

	u, err := s.GetUserByAccessToken(context.Background(), token.AccessTokenPlain)
	require.NoError(t, err)

	err = s.LogoutUser(context.Background(), u.ID)
	require.NoError(t, err)

	_, err = s.GetUserByAccessToken(context.Background(), token.AccessTokenPlain)
	assert.ErrorIs(t, err, ErrNotFound)
}
