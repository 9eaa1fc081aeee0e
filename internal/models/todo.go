package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/constants"
)

type TodoScope string

const (
	TodoScopeDay  TodoScope = "DAY"
	TodoScopeWeek TodoScope = "WEEK"
)

// ParseTodoScope converts user or storage input into a TodoScope.
func ParseTodoScope(s string) (TodoScope, error) {
	switch TodoScope(strings.TrimSpace(strings.ToUpper(s))) {
	case TodoScopeDay, "":
		return TodoScopeDay, nil
	case TodoScopeWeek:
		return TodoScopeWeek, nil
	default:
		return "", fmt.Errorf("invalid todo scope: %q", s)
	}
}

// TodoItem is a task bound to a day or to a week. Date is the anchor for
// day-scoped items and WeekStartDate for week-scoped ones.
type TodoItem struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Date          string    `json:"date" db:"date"` // YYYY-MM-DD
	WeekStartDate *string   `json:"week_start_date,omitempty" db:"week_start_date"`
	Scope         TodoScope `json:"scope" db:"scope"`
	MoveToNext    bool      `json:"move_to_next" db:"move_to_next"`
	IsCompleted   bool      `json:"is_completed" db:"is_completed"`
	CompletedDate *string   `json:"completed_date,omitempty" db:"completed_date"`
	CreatedAt     string    `json:"created_at" db:"created_at"` // YYYY-MM-DD HH:MM:SS
}

// Anchor returns the date the item is originally associated with.
func (t TodoItem) Anchor() string {
	if t.Scope == TodoScopeWeek {
		if t.WeekStartDate == nil {
			return ""
		}
		return *t.WeekStartDate
	}
	return t.Date
}

func (t TodoItem) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("todo title cannot be empty")
	}

	switch t.Scope {
	case TodoScopeDay:
		if _, err := time.Parse(constants.DateFormat, t.Date); err != nil {
			return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
		}
	case TodoScopeWeek:
		if t.WeekStartDate == nil {
			return fmt.Errorf("week-scoped todo requires a week start date")
		}
		if _, err := time.Parse(constants.DateFormat, *t.WeekStartDate); err != nil {
			return fmt.Errorf("invalid week start date (expected YYYY-MM-DD): %w", err)
		}
	default:
		return fmt.Errorf("invalid todo scope: %q", t.Scope)
	}

	if t.IsCompleted != (t.CompletedDate != nil) {
		return fmt.Errorf("completed date must be set exactly when the todo is completed")
	}

	return nil
}

func (t TodoItem) WithTitle(title string) TodoItem {
	t.Title = title
	return t
}

func (t TodoItem) WithMoveToNext(moveToNext bool) TodoItem {
	t.MoveToNext = moveToNext
	return t
}
