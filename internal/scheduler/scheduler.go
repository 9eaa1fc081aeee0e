// Package scheduler assembles day, week and month agendas from stored
// events and todos.
package scheduler

import (
	"fmt"
	"time"

	"github.com/julianstephens/planner/internal/layout"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/recurrence"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/todo"
	"github.com/julianstephens/planner/internal/utils"
)

type Scheduler struct {
	store     storage.Provider
	weekStart time.Weekday
}

func New(store storage.Provider, weekStart time.Weekday) *Scheduler {
	return &Scheduler{
		store:     store,
		weekStart: weekStart,
	}
}

// WeekStart returns the configured first day of the week.
func (s *Scheduler) WeekStart() time.Weekday {
	return s.weekStart
}

// Day is the agenda of one calendar date.
type Day struct {
	Date       time.Time
	Events     []models.Event // occurrences, ordered by start
	Placements []layout.Placement
	Todos      []models.TodoItem
}

// DayEvents holds the occurrences of one date inside a week.
type DayEvents struct {
	Date   time.Time
	Events []models.Event
}

// Week is the agenda of the week containing a date.
type Week struct {
	Start time.Time
	Days  [7]DayEvents
	Todos []models.TodoItem
}

// MonthDay summarizes one date of a month grid.
type MonthDay struct {
	Date      time.Time
	HasEvents bool
	TodoCount int
}

// Month is a month grid. Leading counts the blank cells before the first
// day so the grid lines up with the first weekday.
type Month struct {
	Year    int
	Month   time.Month
	Leading int
	Days    []MonthDay
}

// Day returns the occurrences, their layout and the day todos for date.
func (s *Scheduler) Day(date time.Time) (Day, error) {
	date = utils.DateOf(date)
	key := utils.FormatDate(date)

	anchored, err := s.store.GetEventsAnchoredOn(key)
	if err != nil {
		return Day{}, fmt.Errorf("failed to load events for %s: %w", key, err)
	}
	recurring, err := s.store.GetRecurringEvents()
	if err != nil {
		return Day{}, fmt.Errorf("failed to load recurring events: %w", err)
	}
	events := recurrence.OccurrencesForDate(append(anchored, recurring...), date)

	period := todo.DayPeriod(date)
	candidates, err := s.store.GetTodosByScope(models.TodoScopeDay, period.String())
	if err != nil {
		return Day{}, fmt.Errorf("failed to load todos for %s: %w", key, err)
	}

	logger.Debug("Built day agenda", "date", key, "events", len(events), "candidates", len(candidates))
	return Day{
		Date:       date,
		Events:     events,
		Placements: layout.Layout(events),
		Todos:      todo.ForPeriod(candidates, period),
	}, nil
}

// Week returns the seven days of the week containing date and the week
// todos listed in it.
func (s *Scheduler) Week(date time.Time) (Week, error) {
	period := todo.WeekPeriod(date, s.weekStart)
	start := period.Anchor
	end := start.AddDate(0, 0, 6)

	events, err := s.store.GetAllEvents()
	if err != nil {
		return Week{}, fmt.Errorf("failed to load events: %w", err)
	}
	byDate := recurrence.OccurrencesInRange(events, start, end)

	week := Week{Start: start}
	for i := range week.Days {
		d := start.AddDate(0, 0, i)
		week.Days[i] = DayEvents{Date: d, Events: byDate[utils.FormatDate(d)]}
	}

	candidates, err := s.store.GetTodosByScope(models.TodoScopeWeek, period.String())
	if err != nil {
		return Week{}, fmt.Errorf("failed to load todos for week of %s: %w", period, err)
	}
	week.Todos = todo.ForPeriod(candidates, period)
	return week, nil
}

// Month returns the grid for year and month with per-day event markers and
// open day-todo counts.
func (s *Scheduler) Month(year int, month time.Month) (Month, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	n := utils.DaysInMonth(year, month)
	last := first.AddDate(0, 0, n-1)

	events, err := s.store.GetAllEvents()
	if err != nil {
		return Month{}, fmt.Errorf("failed to load events: %w", err)
	}
	todos, err := s.store.GetAllTodos()
	if err != nil {
		return Month{}, fmt.Errorf("failed to load todos: %w", err)
	}
	byDate := recurrence.OccurrencesInRange(events, first, last)

	grid := Month{
		Year:    year,
		Month:   month,
		Leading: (int(first.Weekday()) - int(s.weekStart) + 7) % 7,
		Days:    make([]MonthDay, n),
	}
	for i := range grid.Days {
		d := first.AddDate(0, 0, i)
		grid.Days[i] = MonthDay{
			Date:      d,
			HasEvents: len(byDate[utils.FormatDate(d)]) > 0,
			TodoCount: todo.CountIncomplete(todos, todo.DayPeriod(d)),
		}
	}
	return grid, nil
}

// PeriodFor returns the period an item of the given scope is toggled in
// when viewed on date.
func (s *Scheduler) PeriodFor(scope models.TodoScope, date time.Time) todo.Period {
	if scope == models.TodoScopeWeek {
		return todo.WeekPeriod(date, s.weekStart)
	}
	return todo.DayPeriod(date)
}

// NewTodo returns an unsaved todo anchored on date, or on the week
// containing date when scope is WEEK.
func (s *Scheduler) NewTodo(title string, date time.Time, scope models.TodoScope, carry bool) models.TodoItem {
	item := models.TodoItem{
		Title:      title,
		Date:       utils.FormatDate(utils.DateOf(date)),
		Scope:      models.TodoScopeDay,
		MoveToNext: carry,
	}
	if scope == models.TodoScopeWeek {
		start := s.PeriodFor(scope, date).String()
		item.Scope = models.TodoScopeWeek
		item.WeekStartDate = &start
	}
	return item
}

// ToggleTodo sets the completion state of todo id as seen on date and
// returns the stored result.
func (s *Scheduler) ToggleTodo(id int64, completed bool, date time.Time) (models.TodoItem, error) {
	item, err := s.store.GetTodo(id)
	if err != nil {
		return models.TodoItem{}, err
	}

	scope, err := models.ParseTodoScope(string(item.Scope))
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("todo %d: %w", id, err)
	}
	updated := todo.SetCompleted(item, completed, s.PeriodFor(scope, date))
	if updated.IsCompleted == item.IsCompleted {
		return updated, nil
	}

	if err := s.store.SetTodoCompleted(id, updated.IsCompleted, updated.CompletedDate); err != nil {
		return models.TodoItem{}, fmt.Errorf("failed to update todo %d: %w", id, err)
	}
	logger.Info("Todo completion changed", "id", id, "completed", updated.IsCompleted)
	return updated, nil
}

// PrevMonth steps back one calendar month.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}

// NextMonth steps forward one calendar month.
func NextMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}
