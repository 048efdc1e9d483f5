// Package store opens the user store named by a connection URL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"modelhub/internal/repository"
	"modelhub/internal/repository/postgres"
	"modelhub/internal/repository/sqlite"
)

// Backend identifies a store implementation.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Store bundles an initialized user repository with its connection.
type Store struct {
	Backend Backend
	Users   repository.UserRepository
	db      *sql.DB
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Parse splits a store URL into its backend and driver specific target.
// sqlite://<path> and bare paths select sqlite; postgres:// and
// postgresql:// select PostgreSQL and keep the full URL as DSN.
func Parse(rawURL string) (Backend, string, error) {
	rawURL = strings.TrimSpace(rawURL)
	switch {
	case rawURL == "":
		return "", "", fmt.Errorf("store url is empty")
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return BackendPostgres, rawURL, nil
	case strings.HasPrefix(rawURL, "sqlite://"):
		return BackendSQLite, strings.TrimPrefix(rawURL, "sqlite://"), nil
	case strings.HasPrefix(rawURL, "sqlite:"):
		return BackendSQLite, strings.TrimPrefix(rawURL, "sqlite:"), nil
	case strings.Contains(rawURL, "://"):
		return "", "", fmt.Errorf("unsupported store url scheme in %q", rawURL)
	default:
		return BackendSQLite, rawURL, nil
	}
}

// Open connects to the store and runs its schema initialization. key is
// the store credential and only applies to PostgreSQL.
func Open(ctx context.Context, rawURL, key string) (*Store, error) {
	backend, target, err := Parse(rawURL)
	if err != nil {
		return nil, err
	}

	var (
		db    *sql.DB
		users repository.UserRepository
	)
	switch backend {
	case BackendPostgres:
		db, err = postgres.Open(ctx, target, key)
		if err != nil {
			return nil, err
		}
		users = postgres.NewUserRepository(db)
	default:
		db, err = sqlite.Open(ctx, target)
		if err != nil {
			return nil, err
		}
		users = sqlite.NewUserRepository(db)
	}

	if err := users.Init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init user repository: %w", err)
	}

	return &Store{Backend: backend, Users: users, db: db}, nil
}
