package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/tui/components/todolist"
	"github.com/julianstephens/planner/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layoutComponents()
		return m, nil
	}

	if m.state == StateAddTodo || m.state == StateAddEvent {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case todolist.ToggleTodoMsg:
		item, err := m.scheduler.ToggleTodo(msg.ID, msg.Completed, m.date)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.refresh()
		if item.IsCompleted {
			m.status = fmt.Sprintf("Done: %s", item.Title)
		} else {
			m.status = fmt.Sprintf("Reopened: %s", item.Title)
		}
		return m, nil

	case todolist.AddTodoMsg:
		return m.openTodoForm()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.setView((m.view + 1) % 3)
			m.layoutComponents()
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.setView((m.view + 2) % 3)
			m.layoutComponents()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.date = m.today()
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.AddEvent):
			return m.openEventForm()
		}
	}

	if m.view == ViewMonth {
		return m, nil
	}

	m.status = ""
	m.todos, cmd = m.todos.Update(msg)
	cmds = append(cmds, cmd)
	if m.view == ViewDay {
		m.dayView, cmd = m.dayView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) openTodoForm() (tea.Model, tea.Cmd) {
	if m.view == ViewMonth {
		return m, nil
	}
	m.todoForm = &TodoFormModel{Week: m.view == ViewWeek}
	m.form = NewTodoForm(m.todoForm)
	m.state = StateAddTodo
	return m, m.form.Init()
}

func (m Model) openEventForm() (tea.Model, tea.Cmd) {
	m.eventForm = &EventFormModel{
		Date:   utils.FormatDate(m.date),
		Repeat: models.RecurrenceNone,
	}
	m.form = NewEventForm(m.eventForm)
	m.state = StateAddEvent
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		if m.state == StateAddTodo {
			err = m.saveTodo()
		} else {
			err = m.saveEvent()
		}
		m.closeForm()
		m.refresh()
		if err != nil {
			m.status = ""
			m.fail(err)
		}
		return m, nil
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}

	return m, cmd
}

func (m *Model) closeForm() {
	m.state = StateBrowse
	m.form = nil
	m.todoForm = nil
	m.eventForm = nil
}

func (m *Model) saveTodo() error {
	scope := models.TodoScopeDay
	if m.todoForm.Week {
		scope = models.TodoScopeWeek
	}
	item := m.scheduler.NewTodo(m.todoForm.Title, m.date, scope, m.todoForm.Carry)
	if err := item.Validate(); err != nil {
		return err
	}
	if _, err := m.store.AddTodo(item); err != nil {
		return fmt.Errorf("failed to add todo: %w", err)
	}
	m.status = fmt.Sprintf("Added todo: %s", item.Title)
	return nil
}

func (m *Model) saveEvent() error {
	event := m.eventForm.Event()
	if err := event.Validate(); err != nil {
		return err
	}
	if _, err := m.store.AddEvent(event); err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	m.status = fmt.Sprintf("Added event: %s", event.Title)
	return nil
}
