// Package sqlite implements the vector store driver on SQLite.
//
// SQLite is supported for development and testing. Plain SQLite has no
// vector operators, so similarity ranking happens in the application layer:
// vectors are stored as BLOBs of little-endian float32 values, candidates are
// scored with the configured distance strategy and sorted client-side.
// Concurrent writers are not supported.
package sqlite

import (
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/emberkit/vecstore/internal/profile"
	"github.com/emberkit/vecstore/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a SQLite database at the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// WAL journal mode avoids most locking issues; busy_timeout covers the
	// rest. With the modernc.org/sqlite driver each pragma must be prefixed
	// with `_pragma=`.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// A single connection is optimal for SQLite with WAL.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	return &DB{db: sqliteDB, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// placeholder renders SQLite positional parameters, which are unnumbered.
func placeholder(_ int) string {
	return "?"
}
