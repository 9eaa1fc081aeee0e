package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/planner/internal/format"
	"github.com/julianstephens/planner/internal/utils"
)

const monthCellWidth = 6

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddTodo, StateAddEvent:
		content = docStyle.Render(m.form.View())
	default:
		switch m.view {
		case ViewDay:
			content = m.viewDay()
		case ViewWeek:
			content = m.viewWeek()
		case ViewMonth:
			content = m.viewMonth()
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range viewNames {
		if m.view == View(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		headingStyle.Render(format.DayHeading(m.date)),
		m.dayView.View(),
		"",
		m.todos.View(),
	))
}

func (m Model) viewWeek() string {
	var b strings.Builder
	start := m.week.Start
	end := start.AddDate(0, 0, 6)
	b.WriteString(headingStyle.Render(fmt.Sprintf("Week of %s – %s", utils.FormatDate(start), utils.FormatDate(end))))
	b.WriteByte('\n')

	today := m.today()
	for _, d := range m.week.Days {
		heading := format.DayHeading(d.Date)
		switch {
		case d.Date.Equal(today):
			heading = todayStyle.Render(heading)
		case d.Date.Equal(m.date):
			heading = selectedStyle.Render(heading)
		default:
			heading = dayHeadingStyle.Render(heading)
		}
		b.WriteString(heading + "\n")
		if len(d.Events) == 0 {
			b.WriteString(mutedStyle.Render("  —") + "\n")
		}
		for _, e := range d.Events {
			b.WriteString("  " + format.EventLine(e) + "\n")
		}
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		b.String(),
		dayHeadingStyle.Render("Week todos"),
		m.todos.View(),
	))
}

func (m Model) viewMonth() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("%s %d", m.month.Month, m.month.Year)))
	b.WriteByte('\n')

	weekStart := m.cfg.FirstWeekday()
	for i := 0; i < 7; i++ {
		name := time.Weekday((int(weekStart) + i) % 7).String()[:2]
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s", monthCellWidth, name)))
	}
	b.WriteByte('\n')

	today := m.today()
	col := 0
	for ; col < m.month.Leading; col++ {
		b.WriteString(strings.Repeat(" ", monthCellWidth))
	}
	for _, d := range m.month.Days {
		cell := fmt.Sprintf("%-*s", monthCellWidth, format.MonthCell(d))
		switch {
		case d.Date.Equal(today):
			cell = todayStyle.Render(cell)
		case d.Date.Equal(m.date):
			cell = selectedStyle.Render(cell)
		}
		b.WriteString(cell)
		col++
		if col%7 == 0 {
			b.WriteByte('\n')
		}
	}

	b.WriteString("\n" + mutedStyle.Render("* events   n open todos"))
	return docStyle.Render(b.String())
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return docStyle.Render(dangerStyle.Render("Error: " + m.err.Error()))
	case m.status != "":
		return docStyle.Render(statusStyle.Render(m.status))
	}
	return ""
}
