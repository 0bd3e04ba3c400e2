// Package migrations applies the embedded database schema.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const DefaultTable = "schema_migrations"

//go:embed sql/*.sql
var files embed.FS

// URL turns a postgres DSN into the pgx5 URL golang-migrate expects.
func URL(dsn, table string) (string, error) {
	const op = "migrations.URL"

	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
	default:
		return "", fmt.Errorf("%s: unsupported dsn scheme %q", op, u.Scheme)
	}
	u.Scheme = "pgx5"

	if table != "" {
		q := u.Query()
		q.Set("x-migrations-table", table)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

func newMigrate(dsn, table string) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, err
	}

	dbURL, err := URL(dsn, table)
	if err != nil {
		return nil, err
	}

	return migrate.NewWithSourceInstance("iofs", src, dbURL)
}

// Up applies all pending migrations. It reports applied=false when the
// schema was already current.
func Up(dsn, table string) (applied bool, err error) {
	const op = "migrations.Up"

	m, err := newMigrate(dsn, table)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// Down rolls back every migration.
func Down(dsn, table string) error {
	const op = "migrations.Down"

	m, err := newMigrate(dsn, table)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
