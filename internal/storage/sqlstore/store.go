// Package sqlstore implements the event and todo queries shared by the SQL
// backends. Statements are built with squirrel and executed through sqlx.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage"
)

// Dialect captures the differences between SQL backends.
type Dialect struct {
	Placeholder sq.PlaceholderFormat
	// Returning selects "INSERT ... RETURNING id" over LastInsertId.
	Returning bool
}

var (
	SQLite   = Dialect{Placeholder: sq.Question}
	Postgres = Dialect{Placeholder: sq.Dollar, Returning: true}
)

const (
	eventsTable = "events"
	todosTable  = "todos"
)

var eventColumns = []string{
	"id", "title", "notes", "date", "start_time", "end_time",
	"recurrence_type", "recurrence_end_date", "created_at",
}

var todoColumns = []string{
	"id", "title", "date", "week_start_date", "scope",
	"move_to_next", "is_completed", "completed_date", "created_at",
}

// Store runs event and todo queries against an open database.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

// New wraps db. The caller owns db and closes it.
func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
	}
}

// DB returns the underlying handle, or nil before the store is opened.
func (s *Store) DB() *sqlx.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return storage.ErrNotLoaded
	}
	return nil
}

func (s *Store) insert(q sq.InsertBuilder) (int64, error) {
	if s.dialect.Returning {
		query, args, err := q.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := s.db.QueryRowx(query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// execOne runs a statement that must touch exactly one row.
func (s *Store) execOne(q sq.Sqlizer, kind string, id int64) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) get(dest interface{}, q sq.SelectBuilder, kind string, id int64) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	if err := s.db.Get(dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s %d: %w", kind, id, storage.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *Store) selectAll(dest interface{}, q sq.SelectBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	return s.db.Select(dest, query, args...)
}

func recurrenceOrNone(rt models.RecurrenceType) string {
	if rt == "" {
		return string(models.RecurrenceNone)
	}
	return string(rt)
}
