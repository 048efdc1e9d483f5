package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modelhub/internal/domain"
	"modelhub/internal/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return Migrate(ctx, r.db)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (username, email, hashed_password, disabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (username) DO NOTHING
RETURNING id`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Disabled,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrUserExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return user.ID, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, email, hashed_password, disabled, created_at, updated_at
FROM users
WHERE username = $1`,
		username,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Disabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) SetDisabled(ctx context.Context, username string, disabled bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET disabled = $1, updated_at = $2
WHERE username = $3`,
		disabled,
		time.Now().UTC(),
		username,
	)
	if err != nil {
		return fmt.Errorf("update user disabled: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}
