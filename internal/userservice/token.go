package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"errors"
	"time"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newPlainToken() (string, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes), nil
}

func newAuthToken(userID int) (*AuthToken, error) {
	access, err := newPlainToken()
	if err != nil {
		return nil, err
	}

	refresh, err := newPlainToken()
	if err != nil {
		return nil, err
	}

	return &AuthToken{
		AccessTokenPlain:   access,
		AccessTokenHash:    hashToken(access),
		RefreshTokenPlain:  refresh,
		RefreshTokenHash:   hashToken(refresh),
		UserID:             userID,
		AccessTokenExpiry:  time.Now().Add(AccessTokenTime),
		RefreshTokenExpiry: time.Now().Add(RefreshTokenTime),
	}, nil
}

func (m *UserModel) insertAuthToken(ctx context.Context, token *AuthToken) error {
	query := `
		INSERT INTO auth_tokens (access_token, refresh_token, user_id, access_token_expiry, refresh_token_expiry)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := m.db.ExecContext(ctx, query, token.AccessTokenHash, token.RefreshTokenHash, token.UserID, token.AccessTokenExpiry, token.RefreshTokenExpiry)
	return err
}

func (m *UserModel) getUserByAccessToken(ctx context.Context, tokenHash []byte) (*User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.version
		FROM users u
		INNER JOIN auth_tokens t ON u.id = t.user_id
		WHERE t.access_token = $1 AND t.access_token_expiry > $2`

	var u User

	err := m.db.QueryRowContext(ctx, query, tokenHash, time.Now()).Scan(&u.ID, &u.Username, &u.Email, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) deleteAuthTokens(ctx context.Context, userID int) error {
	query := `
		DELETE FROM auth_tokens
		WHERE user_id = $1`

	_, err := m.db.ExecContext(ctx, query, userID)
	return err
}
