package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"modelhub/internal/auth"
	"modelhub/internal/domain"
	"modelhub/internal/repository"
)

// UserService describes user lifecycle operations.
type UserService interface {
	Signup(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.AccessToken, error)
	Authorize(ctx context.Context, token string) (*domain.User, error)
}

// TokenIssuer is the token side of the flow, satisfied by *auth.TokenService.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
	Validate(token string) (string, error)
}

type userService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer

	// compared against for unknown usernames so both login failures cost
	// one bcrypt comparison
	dummyHash string
}

func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) (UserService, error) {
	dummy, err := hasher.Hash("modelhub-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &userService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

func (s *userService) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if err := (Credentials{Username: username, Password: password}).Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Disabled:     false,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUsernameTaken
		}
		return nil, storeError(err)
	}

	return sanitizeUser(user), nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*domain.AccessToken, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, storeError(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &domain.AccessToken{
		Value:     token,
		Type:      domain.TokenTypeBearer,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *userService) Authorize(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storeError(err)
	}

	if user.Disabled {
		return nil, ErrInactiveUser
	}

	return sanitizeUser(user), nil
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Disabled:  user.Disabled,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
