// Package db dispatches driver construction by profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/emberkit/vecstore/internal/profile"
	"github.com/emberkit/vecstore/store"
	"github.com/emberkit/vecstore/store/db/postgres"
	"github.com/emberkit/vecstore/store/db/sqlite"
)

// NewDBDriver creates a new database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	}
	return nil, errors.Errorf("unsupported database driver: %q", profile.Driver)
}
