package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")
	// ErrNotLoaded is returned when a store is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is the record store behind the planner. Occurrences of recurring
// events are never stored; callers expand them from the base records.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Events
	AddEvent(models.Event) (int64, error)
	GetEvent(id int64) (models.Event, error)
	GetAllEvents() ([]models.Event, error)
	// GetEventsAnchoredOn returns the one-off events stored on date.
	GetEventsAnchoredOn(date string) ([]models.Event, error)
	// GetRecurringEvents returns every event whose rule is not NONE.
	GetRecurringEvents() ([]models.Event, error)
	UpdateEvent(models.Event) error
	DeleteEvent(id int64) error

	// Todos
	AddTodo(models.TodoItem) (int64, error)
	GetTodo(id int64) (models.TodoItem, error)
	// GetTodosByScope returns a superset of the items visible in the period
	// anchored at anchor: those anchored on or before it plus those completed
	// on it. Callers filter the result with the todo package.
	GetTodosByScope(scope models.TodoScope, anchor string) ([]models.TodoItem, error)
	GetAllTodos() ([]models.TodoItem, error)
	UpdateTodo(models.TodoItem) error
	// SetTodoCompleted writes both completion fields in one statement.
	SetTodoCompleted(id int64, completed bool, completedDate *string) error
	DeleteTodo(id int64) error

	// Utils
	GetConfigPath() string
}

// Now returns the creation timestamp format used for new records.
func Now() string {
	return time.Now().Format(constants.TimestampFormat)
}

// IsPostgres reports whether database names a PostgreSQL connection.
func IsPostgres(database string) bool {
	return strings.HasPrefix(database, "postgres://") || strings.HasPrefix(database, "postgresql://")
}

// IsJSON reports whether database names a JSON file store.
func IsJSON(database string) bool {
	return strings.HasSuffix(strings.ToLower(database), ".json")
}
