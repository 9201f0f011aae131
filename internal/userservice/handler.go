package userservice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/koyasong/bloghive/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, cache *common.Cache) *UserService {
	return &UserService{
		m: newUserModel(db),
		c: cache,
	}
}

// CreateUser registers a new user account.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Email:    email,
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insert(ctx, &u)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// LoginUser verifies the credentials and mints a new auth token pair.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u, err := s.m.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	match, err := u.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrAuthenticationFailure
	}

	token, err := newAuthToken(u.ID)
	if err != nil {
		return nil, err
	}

	err = s.m.insertAuthToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return token, nil
}

// LogoutUser revokes every auth token held by the user.
func (s *UserService) LogoutUser(ctx context.Context, userID int) error {
	err := s.m.deleteAuthTokens(ctx, userID)
	if err != nil {
		return err
	}

	if s.c != nil {
		s.c.Flush()
	}

	return nil
}

// GetUserByAccessToken resolves a plain bearer token to its user. Hits
// the cache first so the authenticate middleware does not query the
// database on every request.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	v.Check(token != "", "token", "must be provided")
	v.Check(len(token) == 26, "token", "must be 26 characters long")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)

	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyUserByAccessToken(hash)); ok {
			return cached.(*User), nil
		}
	}

	u, err := s.m.getUserByAccessToken(ctx, hash)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.Set(common.CacheKeyUserByAccessToken(hash), u, 5*time.Minute)
	}

	return u, nil
}
