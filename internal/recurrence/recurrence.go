// Package recurrence decides which stored events occur on a calendar date.
//
// Stored records come from free text and older databases, so nothing here
// rejects input: unreadable dates and times fall back to zero components and
// unknown rules behave like a one-off event.
package recurrence

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// OccursOn reports whether e has an occurrence on date. Only the calendar
// date of the argument is considered.
func OccursOn(e models.Event, date time.Time) bool {
	target := utils.DateOf(date)
	anchor := utils.ParseDateLenient(e.Date)

	if target.Before(anchor) {
		return false
	}
	if end, ok := endDate(e); ok && target.After(end) {
		return false
	}

	switch ruleOf(e) {
	case models.RecurrenceDaily:
		return true
	case models.RecurrenceWeekly:
		return target.Weekday() == anchor.Weekday()
	case models.RecurrenceMonthly:
		// No clamping: an anchor on the 31st skips shorter months.
		return target.Day() == anchor.Day()
	case models.RecurrenceYearly:
		return target.Day() == anchor.Day() && target.Month() == anchor.Month()
	default:
		return target.Equal(anchor)
	}
}

// OccurrencesForDate expands events into the occurrences that fall on date.
// Each occurrence is a copy of its base record carrying date as its Date.
// The result is ordered by start time, then ID, then input order.
func OccurrencesForDate(events []models.Event, date time.Time) []models.Event {
	day := utils.FormatDate(utils.DateOf(date))

	occurrences := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !OccursOn(e, date) {
			continue
		}
		occurrences = append(occurrences, e.WithDate(day))
	}

	SortByStart(occurrences)
	return occurrences
}

// OccurrencesInRange returns, for every date in [from, to], the occurrences
// falling on it, keyed by YYYY-MM-DD. Dates without occurrences are omitted.
func OccurrencesInRange(events []models.Event, from, to time.Time) map[string][]models.Event {
	result := make(map[string][]models.Event)
	for d := utils.DateOf(from); !d.After(utils.DateOf(to)); d = d.AddDate(0, 0, 1) {
		if occ := OccurrencesForDate(events, d); len(occ) > 0 {
			result[utils.FormatDate(d)] = occ
		}
	}
	return result
}

// SortByStart orders events by start minute, breaking ties by ID. The sort
// is stable so equal IDs keep their input order.
func SortByStart(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		si, sj := StartMinutes(events[i]), StartMinutes(events[j])
		if si != sj {
			return si < sj
		}
		return events[i].ID < events[j].ID
	})
}

// StartMinutes returns the event start as minutes from midnight, or zero
// when the start time cannot be read.
func StartMinutes(e models.Event) int {
	m, _ := utils.ClockMinutes(e.StartTime)
	return m
}

func ruleOf(e models.Event) models.RecurrenceType {
	rt, err := models.ParseRecurrenceType(string(e.Recurrence))
	if err != nil {
		return models.RecurrenceNone
	}
	return rt
}

func endDate(e models.Event) (time.Time, bool) {
	if e.RecurrenceEndDate == nil || strings.TrimSpace(*e.RecurrenceEndDate) == "" {
		return time.Time{}, false
	}
	return utils.ParseDateLenient(*e.RecurrenceEndDate), true
}
