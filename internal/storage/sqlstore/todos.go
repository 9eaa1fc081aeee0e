package sqlstore

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage"
)

func (s *Store) selectTodos() sq.SelectBuilder {
	return s.sb.Select(todoColumns...).From(todosTable)
}

func (s *Store) AddTodo(t models.TodoItem) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if t.CreatedAt == "" {
		t.CreatedAt = storage.Now()
	}
	if t.Scope == "" {
		t.Scope = models.TodoScopeDay
	}

	q := s.sb.Insert(todosTable).
		Columns(todoColumns[1:]...).
		Values(t.Title, t.Date, t.WeekStartDate, string(t.Scope),
			t.MoveToNext, t.IsCompleted, t.CompletedDate, t.CreatedAt)
	return s.insert(q)
}

func (s *Store) GetTodo(id int64) (models.TodoItem, error) {
	if err := s.ready(); err != nil {
		return models.TodoItem{}, err
	}
	var t models.TodoItem
	err := s.get(&t, s.selectTodos().Where(sq.Eq{"id": id}), "todo", id)
	return t, err
}

// GetTodosByScope cannot express carry-over as an equality lookup, so it
// returns every item anchored on or before the period plus those completed
// in it.
func (s *Store) GetTodosByScope(scope models.TodoScope, anchor string) ([]models.TodoItem, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	anchorColumn := "date"
	if scope == models.TodoScopeWeek {
		anchorColumn = "week_start_date"
	}

	q := s.selectTodos().
		Where(sq.And{
			sq.Eq{"scope": string(scope)},
			sq.Or{
				sq.LtOrEq{anchorColumn: anchor},
				sq.Eq{"completed_date": anchor},
			},
		}).
		OrderBy("is_completed", "created_at", "id")

	var todos []models.TodoItem
	err := s.selectAll(&todos, q)
	return todos, err
}

func (s *Store) GetAllTodos() ([]models.TodoItem, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var todos []models.TodoItem
	err := s.selectAll(&todos, s.selectTodos().OrderBy("created_at", "id"))
	return todos, err
}

func (s *Store) UpdateTodo(t models.TodoItem) error {
	if err := s.ready(); err != nil {
		return err
	}
	q := s.sb.Update(todosTable).
		Set("title", t.Title).
		Set("date", t.Date).
		Set("week_start_date", t.WeekStartDate).
		Set("scope", string(t.Scope)).
		Set("move_to_next", t.MoveToNext).
		Set("is_completed", t.IsCompleted).
		Set("completed_date", t.CompletedDate).
		Where(sq.Eq{"id": t.ID})
	return s.execOne(q, "todo", t.ID)
}

func (s *Store) SetTodoCompleted(id int64, completed bool, completedDate *string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !completed {
		completedDate = nil
	}
	q := s.sb.Update(todosTable).
		Set("is_completed", completed).
		Set("completed_date", completedDate).
		Where(sq.Eq{"id": id})
	return s.execOne(q, "todo", id)
}

func (s *Store) DeleteTodo(id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.execOne(s.sb.Delete(todosTable).Where(sq.Eq{"id": id}), "todo", id)
}
