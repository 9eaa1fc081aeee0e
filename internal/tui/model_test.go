package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/scheduler"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/tui/components/todolist"
	"github.com/julianstephens/planner/internal/utils"
)

var fixedToday = utils.ParseDateLenient("2024-06-12") // a Wednesday

func setup(t *testing.T) (Model, *storage.JSONStore) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "planner.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	cfg := config.DefaultConfig()
	m := NewModel(store, scheduler.New(store, cfg.FirstWeekday()), cfg)
	m.today = func() time.Time { return fixedToday }
	m.date = fixedToday
	m.refresh()
	return m, store
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigation(t *testing.T) {
	m, _ := setup(t)

	m = press(t, m, runes("l"))
	if got := utils.FormatDate(m.Date()); got != "2024-06-13" {
		t.Errorf("after next: date = %s, want 2024-06-13", got)
	}
	m = press(t, m, runes("h"))
	m = press(t, m, runes("h"))
	if got := utils.FormatDate(m.Date()); got != "2024-06-11" {
		t.Errorf("after prev: date = %s, want 2024-06-11", got)
	}
	m = press(t, m, runes("t"))
	if !m.Date().Equal(fixedToday) {
		t.Errorf("after today: date = %s, want 2024-06-12", utils.FormatDate(m.Date()))
	}
}

func TestViewSwitching(t *testing.T) {
	m, _ := setup(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != ViewWeek {
		t.Fatalf("view = %v, want week", m.view)
	}
	m = press(t, m, runes("l"))
	if got := utils.FormatDate(m.Date()); got != "2024-06-19" {
		t.Errorf("week step: date = %s, want 2024-06-19", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != ViewMonth {
		t.Fatalf("view = %v, want month", m.view)
	}
	m = press(t, m, runes("l"))
	if got := utils.FormatDate(m.Date()); got != "2024-07-01" {
		t.Errorf("month step: date = %s, want 2024-07-01", got)
	}
	if m.month.Month != time.July {
		t.Errorf("month = %v, want July", m.month.Month)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.view != ViewWeek {
		t.Errorf("view = %v, want week after shift+tab", m.view)
	}
}

func TestDayViewShowsAgenda(t *testing.T) {
	m, store := setup(t)
	if _, err := store.AddEvent(models.Event{Title: "Standup", Date: "2024-06-05", StartTime: "09:00", EndTime: "09:15", Recurrence: models.RecurrenceWeekly}); err != nil {
		t.Fatalf("AddEvent() failed: %v", err)
	}
	if _, err := store.AddTodo(models.TodoItem{Title: "Buy milk", Date: "2024-06-12", Scope: models.TodoScopeDay}); err != nil {
		t.Fatalf("AddTodo() failed: %v", err)
	}

	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.refresh()
	out := m.View()
	for _, want := range []string{"Wednesday", "Standup", "Buy milk"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if m.todos.Len() != 1 {
		t.Errorf("todo list has %d items, want 1", m.todos.Len())
	}
}

func TestToggleTodo(t *testing.T) {
	m, store := setup(t)
	id, err := store.AddTodo(models.TodoItem{Title: "Stretch", Date: "2024-06-10", Scope: models.TodoScopeDay, MoveToNext: true})
	if err != nil {
		t.Fatalf("AddTodo() failed: %v", err)
	}
	m.refresh()

	m = press(t, m, todolist.ToggleTodoMsg{ID: id, Completed: true})
	got, err := store.GetTodo(id)
	if err != nil {
		t.Fatalf("GetTodo() failed: %v", err)
	}
	if !got.IsCompleted || got.CompletedDate == nil || *got.CompletedDate != "2024-06-12" {
		t.Errorf("todo = %+v, want completed on 2024-06-12", got)
	}
	if m.status != "Done: Stretch" {
		t.Errorf("status = %q", m.status)
	}

	m = press(t, m, todolist.ToggleTodoMsg{ID: id, Completed: false})
	got, _ = store.GetTodo(id)
	if got.IsCompleted {
		t.Error("todo should be reopened")
	}
	if m.err != nil {
		t.Errorf("unexpected error: %v", m.err)
	}
}

func TestToggleTodo_Missing(t *testing.T) {
	m, _ := setup(t)
	m = press(t, m, todolist.ToggleTodoMsg{ID: 42, Completed: true})
	if m.err == nil {
		t.Error("expected an error for a missing todo")
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("View() should show the error")
	}
}

func TestAddTodoForm(t *testing.T) {
	m, store := setup(t)

	m = press(t, m, todolist.AddTodoMsg{})
	if m.state != StateAddTodo || m.form == nil {
		t.Fatalf("state = %v, want add todo form", m.state)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateBrowse || m.form != nil {
		t.Fatalf("esc should close the form, state = %v", m.state)
	}

	m.view = ViewWeek
	m = press(t, m, todolist.AddTodoMsg{})
	if !m.todoForm.Week {
		t.Error("todo form opened from the week view should default to the week")
	}
	m.todoForm.Title = "Plan trip"
	if err := m.saveTodo(); err != nil {
		t.Fatalf("saveTodo() failed: %v", err)
	}

	todos, err := store.GetAllTodos()
	if err != nil {
		t.Fatalf("GetAllTodos() failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Scope != models.TodoScopeWeek || *todos[0].WeekStartDate != "2024-06-10" {
		t.Errorf("todos = %+v", todos)
	}
}

func TestAddTodoForm_NotInMonthView(t *testing.T) {
	m, _ := setup(t)
	m.setView(ViewMonth)
	m = press(t, m, todolist.AddTodoMsg{})
	if m.state != StateBrowse {
		t.Errorf("state = %v, month view has no todo list", m.state)
	}
}

func TestAddEventForm(t *testing.T) {
	m, store := setup(t)

	m = press(t, m, runes("n"))
	if m.state != StateAddEvent {
		t.Fatalf("state = %v, want add event form", m.state)
	}
	if m.eventForm.Date != "2024-06-12" || m.eventForm.Repeat != models.RecurrenceNone {
		t.Errorf("event form defaults = %+v", m.eventForm)
	}

	m.eventForm.Title = "Dentist"
	m.eventForm.Start = "14:00"
	if err := m.saveEvent(); err != nil {
		t.Fatalf("saveEvent() failed: %v", err)
	}
	events, _ := store.GetAllEvents()
	if len(events) != 1 || events[0].Title != "Dentist" || events[0].EndTime != "" {
		t.Errorf("events = %+v", events)
	}

	m.eventForm.Start = "2pm"
	if err := m.saveEvent(); err == nil {
		t.Error("saveEvent() should reject an invalid start time")
	}
}

func TestEventFormModel_Event(t *testing.T) {
	fm := EventFormModel{
		Title:  "  Book club ",
		Date:   "2024-06-05",
		Start:  "19:00",
		End:    "21:00",
		Repeat: models.RecurrenceMonthly,
		Until:  "2024-12-31",
	}
	e := fm.Event()
	if e.Title != "Book club" || e.Recurrence != models.RecurrenceMonthly {
		t.Errorf("Event() = %+v", e)
	}
	if e.RecurrenceEndDate == nil || *e.RecurrenceEndDate != "2024-12-31" {
		t.Errorf("RecurrenceEndDate = %v", e.RecurrenceEndDate)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}

	fm.Until = " "
	if e := fm.Event(); e.RecurrenceEndDate != nil {
		t.Error("blank until should leave the rule open ended")
	}
}

func TestClockValidator(t *testing.T) {
	tests := []struct {
		in       string
		optional bool
		wantErr  bool
	}{
		{"09:30", false, false},
		{"9:30", false, true},
		{"", false, true},
		{"", true, false},
		{"25:00", true, true},
	}
	for _, tt := range tests {
		err := clock(tt.optional)(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("clock(%v)(%q) error = %v, wantErr %v", tt.optional, tt.in, err, tt.wantErr)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := setup(t)
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if !next.(Model).quitting {
		t.Error("model should be quitting")
	}
	if next.View() != "" {
		t.Error("quitting model should render nothing")
	}
}
