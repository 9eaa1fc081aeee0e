package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/constants"
)

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "NONE"
	RecurrenceDaily   RecurrenceType = "DAILY"
	RecurrenceWeekly  RecurrenceType = "WEEKLY"
	RecurrenceMonthly RecurrenceType = "MONTHLY"
	RecurrenceYearly  RecurrenceType = "YEARLY"
)

// RecurrenceTypes lists every supported rule in display order.
var RecurrenceTypes = []RecurrenceType{
	RecurrenceNone,
	RecurrenceDaily,
	RecurrenceWeekly,
	RecurrenceMonthly,
	RecurrenceYearly,
}

// ParseRecurrenceType converts user or storage input into a RecurrenceType.
// Matching is case-insensitive and an empty string means RecurrenceNone.
func ParseRecurrenceType(s string) (RecurrenceType, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return RecurrenceNone, nil
	}
	for _, rt := range RecurrenceTypes {
		if string(rt) == s {
			return rt, nil
		}
	}
	return "", fmt.Errorf("invalid recurrence type: %q", s)
}

// Event is a stored calendar entry. A recurring event has exactly one record;
// its occurrences are derived on read and never stored.
type Event struct {
	ID                int64          `json:"id" db:"id"`
	Title             string         `json:"title" db:"title"`
	Notes             string         `json:"notes" db:"notes"`
	Date              string         `json:"date" db:"date"`             // YYYY-MM-DD, first possible occurrence
	StartTime         string         `json:"start_time" db:"start_time"` // HH:MM
	EndTime           string         `json:"end_time" db:"end_time"`     // HH:MM
	Recurrence        RecurrenceType `json:"recurrence_type" db:"recurrence_type"`
	RecurrenceEndDate *string        `json:"recurrence_end_date,omitempty" db:"recurrence_end_date"` // inclusive
	CreatedAt         string         `json:"created_at" db:"created_at"`                             // YYYY-MM-DD HH:MM:SS
}

// IsRecurring reports whether the event can produce more than one occurrence.
func (e Event) IsRecurring() bool {
	return e.Recurrence != "" && e.Recurrence != RecurrenceNone
}

// Validate performs strict checks on user-supplied values. Stored records are
// never rejected on read; see the recurrence package for lenient handling.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event title cannot be empty")
	}
	if _, err := time.Parse(constants.DateFormat, e.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if _, err := time.Parse(constants.TimeFormat, e.StartTime); err != nil {
		return fmt.Errorf("invalid start time format (expected HH:MM): %w", err)
	}
	if e.EndTime != "" {
		if _, err := time.Parse(constants.TimeFormat, e.EndTime); err != nil {
			return fmt.Errorf("invalid end time format (expected HH:MM): %w", err)
		}
	}
	if _, err := ParseRecurrenceType(string(e.Recurrence)); err != nil {
		return err
	}
	if e.RecurrenceEndDate != nil {
		end, err := time.Parse(constants.DateFormat, *e.RecurrenceEndDate)
		if err != nil {
			return fmt.Errorf("invalid recurrence end date (expected YYYY-MM-DD): %w", err)
		}
		start, _ := time.Parse(constants.DateFormat, e.Date) // Already validated above
		if end.Before(start) {
			return fmt.Errorf("recurrence end date %s is before event date %s", *e.RecurrenceEndDate, e.Date)
		}
	}
	return nil
}

// Replace returns u with the identity fields (ID, CreatedAt) of e.
func (e Event) Replace(u Event) Event {
	u.ID = e.ID
	u.CreatedAt = e.CreatedAt
	return u
}

func (e Event) WithTitle(title string) Event {
	e.Title = title
	return e
}

func (e Event) WithNotes(notes string) Event {
	e.Notes = notes
	return e
}

func (e Event) WithDate(date string) Event {
	e.Date = date
	return e
}

func (e Event) WithTimes(start, end string) Event {
	e.StartTime = start
	e.EndTime = end
	return e
}

// WithRecurrence sets the rule and its optional inclusive end date.
// The end date is copied so the result shares no state with the caller.
func (e Event) WithRecurrence(rt RecurrenceType, endDate *string) Event {
	e.Recurrence = rt
	e.RecurrenceEndDate = nil
	if endDate != nil {
		end := *endDate
		e.RecurrenceEndDate = &end
	}
	return e
}
