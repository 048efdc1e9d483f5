package repository

import (
	"context"
	"errors"

	"modelhub/internal/domain"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned by Create when the username is already taken.
	ErrUserExists = errors.New("user already exists")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create inserts user unless the username is taken, in which case the
	// stored row is left untouched and ErrUserExists is returned.
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	SetDisabled(ctx context.Context, username string, disabled bool) error
}
