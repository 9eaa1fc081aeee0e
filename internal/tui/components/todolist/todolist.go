package todolist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/planner/internal/format"
	"github.com/julianstephens/planner/internal/models"
)

type AddTodoMsg struct{}

type ToggleTodoMsg struct {
	ID        int64
	Completed bool
}

type Item struct {
	Todo models.TodoItem
}

func (i Item) Title() string { return format.TodoLine(i.Todo) }
func (i Item) Description() string {
	switch {
	case i.Todo.IsCompleted && i.Todo.CompletedDate != nil:
		return fmt.Sprintf("done %s", *i.Todo.CompletedDate)
	case i.Todo.MoveToNext:
		return fmt.Sprintf("since %s, moves forward until done", i.Todo.Anchor())
	default:
		return i.Todo.Anchor()
	}
}
func (i Item) FilterValue() string { return i.Todo.Title }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add todo"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(todos []models.TodoItem, width, height int) Model {
	l := list.New(items(todos), list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the main model
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	// h/l, q and ? belong to the main model.
	l.KeyMap.PrevPage.SetEnabled(false)
	l.KeyMap.NextPage.SetEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func items(todos []models.TodoItem) []list.Item {
	out := make([]list.Item, len(todos))
	for i, t := range todos {
		out[i] = Item{Todo: t}
	}
	return out
}

// SetTodos replaces the listed items, keeping the cursor in range.
func (m *Model) SetTodos(todos []models.TodoItem) {
	index := m.list.Index()
	m.list.SetItems(items(todos))
	if index >= len(todos) {
		index = len(todos) - 1
	}
	if index >= 0 {
		m.list.Select(index)
	}
}

// Selected returns the todo under the cursor.
func (m Model) Selected() (models.TodoItem, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Todo, ok
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTodoMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleTodoMsg{ID: t.ID, Completed: !t.IsCompleted} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No todos.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
