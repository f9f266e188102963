// Package service holds the business rules sitting between HTTP handlers and the store.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// RegisterInput is the raw registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult carries the token pair and the authenticated user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// AuthService registers users and hands out tokens.
type AuthService struct {
	users  store.Users
	hasher *auth.Hasher
	tokens *auth.Issuer
	check  *checker
	log    logger.Logger
}

func NewAuthService(users store.Users, hasher *auth.Hasher, tokens *auth.Issuer, log logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		check:  newChecker(),
		log:    log,
	}
}

// Register validates in, rejects taken email or username and stores the user
// with a hashed password. Checks run in a fixed order; the first failure wins.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	switch {
	case runeLen(in.Password) < minPasswordLen:
		return nil, domain.ErrPasswordTooShort
	case runeLen(in.Username) < minUsernameLen:
		return nil, domain.ErrUsernameTooShort
	case !s.check.username(in.Username):
		return nil, domain.ErrUsernameInvalid
	case !s.check.email(in.Email):
		return nil, domain.ErrEmailInvalid
	}

	if _, err := s.users.UserByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.users.UserByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Username: in.Username, Email: in.Email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, u); err != nil {
		// Lost a race against a concurrent registration.
		switch store.ConflictField(err) {
		case store.FieldEmail:
			return nil, domain.ErrEmailTaken
		case store.FieldUsername:
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", logger.Int64("user_id", u.ID))
	return u, nil
}

// Login checks credentials and issues an access and a refresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrWrongCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	ok, err := s.hasher.Verify(u.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Debug("login rejected", logger.Int64("user_id", u.ID))
		return nil, domain.ErrWrongCredentials
	}

	access, err := s.tokens.IssueAccess(u.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(u.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// WhoAmI returns the caller's account.
func (s *AuthService) WhoAmI(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// Refresh issues a new access token for the subject of a validated refresh
// token. The refresh token itself stays valid until it expires.
func (s *AuthService) Refresh(_ context.Context, id *auth.Identity) (string, error) {
	if id == nil {
		return "", domain.ErrMissingToken
	}
	if id.TokenType != auth.RefreshToken {
		return "", domain.ErrWrongTokenType
	}
	return s.tokens.IssueAccess(id.UserID)
}
