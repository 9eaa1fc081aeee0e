// Package tui is the interactive day, week and month agenda.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/scheduler"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/tui/components/dayview"
	"github.com/julianstephens/planner/internal/tui/components/todolist"
	"github.com/julianstephens/planner/internal/utils"
)

type View int

const (
	ViewDay View = iota
	ViewWeek
	ViewMonth
)

var viewNames = []string{"Day", "Week", "Month"}

type SessionState int

const (
	StateBrowse SessionState = iota
	StateAddTodo
	StateAddEvent
)

type TodoFormModel struct {
	Title string
	Week  bool
	Carry bool
}

type EventFormModel struct {
	Title  string
	Date   string
	Start  string
	End    string
	Repeat models.RecurrenceType
	Until  string
}

type Model struct {
	store     storage.Provider
	scheduler *scheduler.Scheduler
	cfg       *config.Config
	today     func() time.Time

	view  View
	state SessionState
	date  time.Time
	keys  KeyMap
	help  help.Model

	dayView dayview.Model
	todos   todolist.Model
	week    scheduler.Week
	month   scheduler.Month

	form      *huh.Form
	todoForm  *TodoFormModel
	eventForm *EventFormModel

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, sched *scheduler.Scheduler, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := Model{
		store:     store,
		scheduler: sched,
		cfg:       cfg,
		today:     cfg.Today,
		view:      ViewDay,
		state:     StateBrowse,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		dayView:   dayview.New(0, 0, cfg.DayStartHour, cfg.DayEndHour),
		todos:     todolist.New(nil, 0, 0),
	}
	m.date = m.today()
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := m.keys.ShortHelp()
	if m.view != ViewMonth {
		keys = append(keys, m.keys.Toggle, m.keys.AddTodo)
	}
	return append(keys, m.keys.AddEvent)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Date returns the focused date.
func (m Model) Date() time.Time {
	return m.date
}

// refresh reloads the focused period from the store.
func (m *Model) refresh() {
	m.err = nil
	switch m.view {
	case ViewDay:
		day, err := m.scheduler.Day(m.date)
		if err != nil {
			m.fail(err)
			return
		}
		m.dayView.SetDay(day)
		m.todos.SetTodos(day.Todos)
	case ViewWeek:
		week, err := m.scheduler.Week(m.date)
		if err != nil {
			m.fail(err)
			return
		}
		m.week = week
		m.todos.SetTodos(week.Todos)
	case ViewMonth:
		month, err := m.scheduler.Month(m.date.Year(), m.date.Month())
		if err != nil {
			m.fail(err)
			return
		}
		m.month = month
	}
}

func (m *Model) fail(err error) {
	logger.Error("TUI operation failed", "view", viewNames[m.view], "error", err)
	m.err = err
}

// step moves the focused date by n periods of the current view.
func (m *Model) step(n int) {
	switch m.view {
	case ViewDay:
		m.date = m.date.AddDate(0, 0, n)
	case ViewWeek:
		m.date = m.date.AddDate(0, 0, 7*n)
	case ViewMonth:
		m.date = utils.MonthStart(m.date).AddDate(0, n, 0)
	}
	m.refresh()
}

func (m *Model) setView(v View) {
	m.view = v
	m.refresh()
}

func (m *Model) layoutComponents() {
	bodyHeight := m.height - 4 // tabs, heading and help
	if bodyHeight < 4 {
		bodyHeight = 4
	}
	switch m.view {
	case ViewDay:
		m.dayView.SetSize(m.width, bodyHeight/2)
		m.todos.SetSize(m.width, bodyHeight-bodyHeight/2)
	default:
		m.todos.SetSize(m.width, bodyHeight/3)
	}
}
