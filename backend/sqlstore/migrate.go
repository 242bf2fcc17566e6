package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// migrateUp applies the embedded migrations for driver. The migrate
// instance is not closed: closing it would close db as well.
func migrateUp(db *sql.DB, driver string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var target database.Driver
	switch driver {
	case DriverSQLite:
		target, err = sqlite.WithInstance(db, &sqlite.Config{})
	case DriverPostgres:
		target, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
