package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
)

const jsonStoreVersion = 1

// document is the on-disk layout of a JSON store.
type document struct {
	Version   int                       `json:"version"`
	NextEvent int64                     `json:"next_event_id"`
	NextTodo  int64                     `json:"next_todo_id"`
	Events    map[int64]models.Event    `json:"events"`
	Todos     map[int64]models.TodoItem `json:"todos"`
}

// JSONStore keeps every record in a single JSON file that is rewritten on
// each change. It suits small planners and tests.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	doc  *document
}

var _ Provider = (*JSONStore)(nil)

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

// Init creates the file if it does not exist and loads it otherwise.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &document{
		Version:   jsonStoreVersion,
		NextEvent: 1,
		NextTodo:  1,
		Events:    make(map[int64]models.Event),
		Todos:     make(map[int64]models.TodoItem),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage version %d is newer than supported version %d", doc.Version, jsonStoreVersion)
	}

	if doc.Events == nil {
		doc.Events = make(map[int64]models.Event)
	}
	if doc.Todos == nil {
		doc.Todos = make(map[int64]models.TodoItem)
	}
	for id := range doc.Events {
		if id >= doc.NextEvent {
			doc.NextEvent = id + 1
		}
	}
	for id := range doc.Todos {
		if id >= doc.NextTodo {
			doc.NextTodo = id + 1
		}
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save must be called with the write lock held.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) AddEvent(e models.Event) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0, ErrNotLoaded
	}

	e.ID = s.doc.NextEvent
	if e.Recurrence == "" {
		e.Recurrence = models.RecurrenceNone
	}
	if e.CreatedAt == "" {
		e.CreatedAt = Now()
	}
	s.doc.Events[e.ID] = e
	s.doc.NextEvent++
	return e.ID, s.save()
}

func (s *JSONStore) GetEvent(id int64) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return models.Event{}, ErrNotLoaded
	}

	e, ok := s.doc.Events[id]
	if !ok {
		return models.Event{}, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return e, nil
}

func (s *JSONStore) GetAllEvents() ([]models.Event, error) {
	return s.filterEvents(func(models.Event) bool { return true }, true)
}

func (s *JSONStore) GetEventsAnchoredOn(date string) ([]models.Event, error) {
	return s.filterEvents(func(e models.Event) bool {
		return e.Date == date && !e.IsRecurring()
	}, false)
}

func (s *JSONStore) GetRecurringEvents() ([]models.Event, error) {
	return s.filterEvents(models.Event.IsRecurring, false)
}

func (s *JSONStore) filterEvents(keep func(models.Event) bool, byDate bool) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNotLoaded
	}

	var events []models.Event
	for _, e := range s.doc.Events {
		if keep(e) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if byDate && a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
	return events, nil
}

func (s *JSONStore) UpdateEvent(e models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	old, ok := s.doc.Events[e.ID]
	if !ok {
		return fmt.Errorf("event %d: %w", e.ID, ErrNotFound)
	}
	if e.Recurrence == "" {
		e.Recurrence = models.RecurrenceNone
	}
	e.CreatedAt = old.CreatedAt
	s.doc.Events[e.ID] = e
	return s.save()
}

func (s *JSONStore) DeleteEvent(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	if _, ok := s.doc.Events[id]; !ok {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	delete(s.doc.Events, id)
	return s.save()
}

func (s *JSONStore) AddTodo(t models.TodoItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0, ErrNotLoaded
	}

	t.ID = s.doc.NextTodo
	if t.Scope == "" {
		t.Scope = models.TodoScopeDay
	}
	if t.CreatedAt == "" {
		t.CreatedAt = Now()
	}
	s.doc.Todos[t.ID] = t
	s.doc.NextTodo++
	return t.ID, s.save()
}

func (s *JSONStore) GetTodo(id int64) (models.TodoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return models.TodoItem{}, ErrNotLoaded
	}

	t, ok := s.doc.Todos[id]
	if !ok {
		return models.TodoItem{}, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	return t, nil
}

func (s *JSONStore) GetTodosByScope(scope models.TodoScope, anchor string) ([]models.TodoItem, error) {
	todos, err := s.filterTodos(func(t models.TodoItem) bool {
		if t.Scope != scope {
			return false
		}
		if t.CompletedDate != nil && *t.CompletedDate == anchor {
			return true
		}
		return t.Anchor() <= anchor
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(todos, func(i, j int) bool {
		if todos[i].IsCompleted != todos[j].IsCompleted {
			return !todos[i].IsCompleted
		}
		return false
	})
	return todos, nil
}

func (s *JSONStore) GetAllTodos() ([]models.TodoItem, error) {
	return s.filterTodos(func(models.TodoItem) bool { return true })
}

// filterTodos returns matching items ordered by creation time, then ID.
func (s *JSONStore) filterTodos(keep func(models.TodoItem) bool) ([]models.TodoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNotLoaded
	}

	var todos []models.TodoItem
	for _, t := range s.doc.Todos {
		if keep(t) {
			todos = append(todos, t)
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		if todos[i].CreatedAt != todos[j].CreatedAt {
			return todos[i].CreatedAt < todos[j].CreatedAt
		}
		return todos[i].ID < todos[j].ID
	})
	return todos, nil
}

func (s *JSONStore) UpdateTodo(t models.TodoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	old, ok := s.doc.Todos[t.ID]
	if !ok {
		return fmt.Errorf("todo %d: %w", t.ID, ErrNotFound)
	}
	t.CreatedAt = old.CreatedAt
	s.doc.Todos[t.ID] = t
	return s.save()
}

func (s *JSONStore) SetTodoCompleted(id int64, completed bool, completedDate *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	t, ok := s.doc.Todos[id]
	if !ok {
		return fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	t.IsCompleted = completed
	t.CompletedDate = nil
	if completed && completedDate != nil {
		day := *completedDate
		t.CompletedDate = &day
	}
	s.doc.Todos[id] = t
	return s.save()
}

func (s *JSONStore) DeleteTodo(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	if _, ok := s.doc.Todos[id]; !ok {
		return fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	delete(s.doc.Todos, id)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
