// Package format renders agendas as plain text for the CLI and the digest.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/layout"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/scheduler"
	"github.com/julianstephens/planner/internal/utils"
)

// DayHeading returns e.g. "Monday, 2024-06-10".
func DayHeading(date time.Time) string {
	return fmt.Sprintf("%s, %s", date.Weekday(), utils.FormatDate(date))
}

// TimeRange returns "HH:MM–HH:MM", or just the start when there is no end.
func TimeRange(e models.Event) string {
	if e.EndTime == "" {
		return e.StartTime
	}
	return e.StartTime + "–" + e.EndTime
}

// Recurrence returns a lowercase description of the event's rule.
func Recurrence(e models.Event) string {
	if !e.IsRecurring() {
		return ""
	}
	s := strings.ToLower(string(e.Recurrence))
	if e.RecurrenceEndDate != nil && *e.RecurrenceEndDate != "" {
		s += " until " + *e.RecurrenceEndDate
	}
	return s
}

// EventLine renders one event or occurrence.
func EventLine(e models.Event) string {
	line := fmt.Sprintf("%-11s  %s", TimeRange(e), e.Title)
	if r := Recurrence(e); r != "" {
		line += fmt.Sprintf(" (%s)", r)
	}
	return line
}

// TodoLine renders one todo with a checkbox.
func TodoLine(t models.TodoItem) string {
	box := "[ ]"
	if t.IsCompleted {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s", box, t.Title)
	if t.MoveToNext && !t.IsCompleted {
		line += " ↻"
	}
	return line
}

// Day writes the agenda of one day. Overlapping events are marked with
// their column so side-by-side blocks stay readable in plain text.
func Day(w io.Writer, day scheduler.Day, showIDs bool) {
	fmt.Fprintf(w, "%s\n\n", DayHeading(day.Date))

	fmt.Fprintln(w, "Events:")
	if len(day.Placements) == 0 {
		fmt.Fprintln(w, "  No events")
	}
	for _, p := range day.Placements {
		fmt.Fprintf(w, "  %s%s%s\n", columnMarker(p), EventLine(p.Event), id(p.Event.ID, showIDs))
	}

	fmt.Fprintln(w, "\nTodos:")
	if len(day.Todos) == 0 {
		fmt.Fprintln(w, "  No todos")
	}
	for _, t := range day.Todos {
		fmt.Fprintf(w, "  %s%s\n", TodoLine(t), id(t.ID, showIDs))
	}
}

// Week writes each day's events followed by the week todos.
func Week(w io.Writer, week scheduler.Week, showIDs bool) {
	end := week.Start.AddDate(0, 0, 6)
	fmt.Fprintf(w, "Week of %s – %s\n", utils.FormatDate(week.Start), utils.FormatDate(end))

	for _, d := range week.Days {
		fmt.Fprintf(w, "\n%s\n", DayHeading(d.Date))
		if len(d.Events) == 0 {
			fmt.Fprintln(w, "  —")
		}
		for _, e := range d.Events {
			fmt.Fprintf(w, "  %s%s\n", EventLine(e), id(e.ID, showIDs))
		}
	}

	fmt.Fprintln(w, "\nWeek todos:")
	if len(week.Todos) == 0 {
		fmt.Fprintln(w, "  No todos")
	}
	for _, t := range week.Todos {
		fmt.Fprintf(w, "  %s%s\n", TodoLine(t), id(t.ID, showIDs))
	}
}

// Month writes a calendar grid. Days with events carry a '*', and open day
// todos are shown as a count.
func Month(w io.Writer, month scheduler.Month, weekStart time.Weekday) {
	fmt.Fprintf(w, "%s %d\n", month.Month, month.Year)

	for i := 0; i < 7; i++ {
		fmt.Fprintf(w, "%-6s", time.Weekday((int(weekStart)+i)%7).String()[:2])
	}
	fmt.Fprintln(w)

	col := 0
	for ; col < month.Leading; col++ {
		fmt.Fprint(w, strings.Repeat(" ", 6))
	}
	for _, d := range month.Days {
		fmt.Fprintf(w, "%-6s", MonthCell(d))
		col++
		if col%7 == 0 {
			fmt.Fprintln(w)
		}
	}
	if col%7 != 0 {
		fmt.Fprintln(w)
	}
}

// MonthCell renders a day number with its markers, e.g. "14*2".
func MonthCell(d scheduler.MonthDay) string {
	cell := fmt.Sprintf("%2d", d.Date.Day())
	if d.HasEvents {
		cell += "*"
	}
	if d.TodoCount > 0 {
		cell += fmt.Sprintf("%d", d.TodoCount)
	}
	return cell
}

// DigestText is the message sent by the daily digest.
func DigestText(day scheduler.Day) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Agenda for %s\n", DayHeading(day.Date))
	if len(day.Events) == 0 && len(day.Todos) == 0 {
		b.WriteString("Nothing planned.\n")
		return b.String()
	}
	for _, e := range day.Events {
		fmt.Fprintf(&b, "• %s\n", EventLine(e))
	}
	open := 0
	for _, t := range day.Todos {
		if t.IsCompleted {
			continue
		}
		open++
		fmt.Fprintf(&b, "%s\n", TodoLine(t))
	}
	if open > 0 {
		fmt.Fprintf(&b, "%d open todo(s)\n", open)
	}
	return b.String()
}

func columnMarker(p layout.Placement) string {
	if p.Columns == 1 {
		return ""
	}
	return fmt.Sprintf("[%d/%d] ", p.Column+1, p.Columns)
}

func id(n int64, show bool) string {
	if !show {
		return ""
	}
	return fmt.Sprintf(" (ID: %d)", n)
}
