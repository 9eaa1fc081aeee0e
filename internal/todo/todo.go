// Package todo decides which todo items belong in a day or week list.
//
// An item is listed in a period when it is open and anchored there, when it
// is open, anchored earlier and marked to move to the next period, or when it
// was completed in that period.
package todo

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// Period is a day, or a week identified by its first day.
type Period struct {
	Scope  models.TodoScope
	Anchor time.Time
}

// DayPeriod returns the day period containing date.
func DayPeriod(date time.Time) Period {
	return Period{Scope: models.TodoScopeDay, Anchor: utils.DateOf(date)}
}

// WeekPeriod returns the week period containing date, where weeks begin on
// firstDay.
func WeekPeriod(date time.Time, firstDay time.Weekday) Period {
	return Period{Scope: models.TodoScopeWeek, Anchor: utils.WeekStart(date, firstDay)}
}

// String returns the period anchor as YYYY-MM-DD.
func (p Period) String() string {
	return utils.FormatDate(p.Anchor)
}

// Next returns the following period of the same scope.
func (p Period) Next() Period {
	return p.shift(1)
}

// Prev returns the preceding period of the same scope.
func (p Period) Prev() Period {
	return p.shift(-1)
}

// Contains reports whether date falls inside the period.
func (p Period) Contains(date time.Time) bool {
	d := utils.DateOf(date)
	return !d.Before(p.Anchor) && d.Before(p.shift(1).Anchor)
}

func (p Period) shift(n int) Period {
	days := n
	if p.Scope == models.TodoScopeWeek {
		days = 7 * n
	}
	p.Anchor = p.Anchor.AddDate(0, 0, days)
	return p
}

// VisibleInPeriod reports whether t is listed in period p. The scopes of t
// and p must match; a mismatch is a caller bug and panics.
func VisibleInPeriod(t models.TodoItem, p Period) bool {
	mustMatchScope(t, p)

	if t.CompletedDate != nil && utils.ParseDateLenient(*t.CompletedDate).Equal(p.Anchor) {
		return true
	}
	if t.IsCompleted {
		return false
	}

	anchor := anchorOf(t)
	if anchor.Equal(p.Anchor) {
		return true
	}
	return t.MoveToNext && anchor.Before(p.Anchor)
}

// ForPeriod returns the items of todos listed in p, ordered for display.
// Items of the other scope are skipped.
func ForPeriod(todos []models.TodoItem, p Period) []models.TodoItem {
	visible := make([]models.TodoItem, 0, len(todos))
	for _, t := range todos {
		if scopeOf(t) != p.Scope {
			continue
		}
		if VisibleInPeriod(t, p) {
			visible = append(visible, t)
		}
	}
	Sort(visible)
	return visible
}

// Sort orders items open first, then by creation time, then by ID.
func Sort(todos []models.TodoItem) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.ID < b.ID
	})
}

// CountIncomplete returns how many open items are listed in p.
func CountIncomplete(todos []models.TodoItem, p Period) int {
	n := 0
	for _, t := range ForPeriod(todos, p) {
		if !t.IsCompleted {
			n++
		}
	}
	return n
}

// HasAny reports whether any open item is listed in p.
func HasAny(todos []models.TodoItem, p Period) bool {
	return CountIncomplete(todos, p) > 0
}

// SetCompleted returns a copy of t with its completion state set. Completing
// an open item records p as its completion period; reopening a completed
// item clears it. Other fields are never touched.
func SetCompleted(t models.TodoItem, completed bool, p Period) models.TodoItem {
	mustMatchScope(t, p)

	switch {
	case completed && !t.IsCompleted:
		day := p.String()
		t.IsCompleted = true
		t.CompletedDate = &day
	case !completed && t.IsCompleted:
		t.IsCompleted = false
		t.CompletedDate = nil
	case t.CompletedDate != nil:
		day := *t.CompletedDate
		t.CompletedDate = &day
	}
	return t
}

func anchorOf(t models.TodoItem) time.Time {
	if a := t.Anchor(); a != "" {
		return utils.ParseDateLenient(a)
	}
	return utils.ParseDateLenient(t.Date)
}

func scopeOf(t models.TodoItem) models.TodoScope {
	scope, err := models.ParseTodoScope(string(t.Scope))
	if err != nil {
		return ""
	}
	return scope
}

func mustMatchScope(t models.TodoItem, p Period) {
	if scope := scopeOf(t); scope != p.Scope {
		panic(fmt.Sprintf("todo %d has scope %q, queried with a %s period", t.ID, t.Scope, p.Scope))
	}
}
