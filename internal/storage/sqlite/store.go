package sqlite

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/migration"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/storage/sqlstore"
	"github.com/julianstephens/planner/migrations"
)

var _ storage.Provider = (*Store)(nil)

type Store struct {
	*sqlstore.Store
	path string
	db   *sqlx.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}

	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.SchemaRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s.db = db
	s.Store = sqlstore.New(db, sqlstore.SQLite)
	logger.Debug("Opened SQLite store", "path", s.path)
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.Store = nil
	return err
}

func (s *Store) runMigrations() error {
	runner, err := s.SchemaRunner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations()
	return err
}

// SchemaRunner returns a migration runner bound to the open connection.
func (s *Store) SchemaRunner() (*migration.Runner, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database is not open")
	}
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}
