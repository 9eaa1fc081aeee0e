// Package backend selects a storage.Provider from the configured database
// string.
package backend

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/constants"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/keyring"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/storage/postgres"
	"github.com/julianstephens/planner/internal/storage/sqlite"
)

// Open returns an unloaded provider for database. PostgreSQL URLs must not
// carry a password; the full connection string is read from
// PLANNER_DB_CONNECTION or the OS keyring when present. Paths ending in
// .json use the JSON store and anything else is a SQLite file.
func Open(database string) (storage.Provider, error) {
	switch {
	case storage.IsPostgres(database):
		if _, err := postgres.ValidateConnString(database); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				err = fmt.Errorf("%w: store the full connection string with '%s keyring set' or in %s",
					err, constants.AppName, constants.EnvDBConnection)
			}
			return nil, apperrors.Invalid(err)
		}
		return postgres.New(ResolveConnString(database)), nil
	case storage.IsJSON(database):
		return storage.NewJSONStore(config.ExpandPath(database)), nil
	default:
		return sqlite.NewStore(config.ExpandPath(database)), nil
	}
}

// ResolveConnString returns the connection string to dial. The environment
// wins over the keyring, and both win over the configured value.
func ResolveConnString(configured string) string {
	if v := os.Getenv(constants.EnvDBConnection); v != "" {
		logger.Debug("Using connection string from environment")
		return v
	}
	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		logger.Debug("Using connection string from keyring")
		return connStr
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Warn("Keyring lookup failed", "error", err)
	}
	return configured
}

// Describe returns a printable name for database that never includes
// credentials.
func Describe(database string) string {
	if storage.IsPostgres(database) {
		return "postgresql"
	}
	return fmt.Sprintf("%s (%s)", config.ExpandPath(database), kind(database))
}

func kind(database string) string {
	if storage.IsJSON(database) {
		return "json"
	}
	return "sqlite"
}
