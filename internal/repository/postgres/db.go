package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"modelhub/internal/repository/postgres/migrations"
)

// Open connects to PostgreSQL using the pgx driver. When key is set and the
// DSN carries no password, key is used as the password.
func Open(ctx context.Context, dsn, key string) (*sql.DB, error) {
	dsn, err := withPassword(dsn, key)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func withPassword(dsn, key string) (string, error) {
	if key == "" {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse postgres url: %w", err)
	}
	if u.User == nil {
		return "", fmt.Errorf("postgres url has no user to attach the store key to")
	}
	if _, set := u.User.Password(); set {
		return dsn, nil
	}
	u.User = url.UserPassword(u.User.Username(), key)
	return u.String(), nil
}
