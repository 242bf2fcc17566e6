// Package sqlstore implements the backend tables on SQLite (local and small
// deployments) or Postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/donmariogerlin/gerlin/backend"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	_ backend.Tables       = (*Store)(nil)
	_ backend.MessageTable = (*Store)(nil)
)

// Store wraps a SQL database holding the photos, documents, contact
// messages and admin accounts tables.
type Store struct {
	db     *sqlx.DB
	driver string
	now    func() time.Time
	newID  func() string
}

// Open connects to the database, applies pending migrations and returns the
// store. For SQLite, dsn is a file path whose directory is created if
// missing.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		// WAL lets public page reads run while the admin writes; the busy
		// timeout makes writers wait instead of failing with SQLITE_BUSY.
		dsn = "file:" + dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrateUp(db.DB, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{
		db:     db,
		driver: driver,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

func (s *Store) stamp() int64 {
	return s.now().UTC().UnixMicro()
}

func fromStamp(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

// expectOne maps a zero rows-affected result onto backend.ErrNotFound.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

var errEmptyID = errors.New("empty id")
