// Package ics converts planner events to and from iCalendar (RFC 5545).
//
// Event times carry no zone, so they are written as floating local times.
// Recurring events get an RRULE with FREQ and, when bounded, UNTIL.
package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/layout"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/recurrence"
	"github.com/julianstephens/planner/internal/utils"
)

const (
	floatingFormat = "20060102T150405"
	uidDomain      = "@" + constants.AppName
)

// uidNamespace scopes event UIDs to this application.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/julianstephens/planner"))

// UID returns the stable iCalendar UID of a stored event.
func UID(id int64) string {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprintf("event:%d", id))).String() + uidDomain
}

// Export writes one VEVENT per stored event. Occurrences are never
// expanded; calendar clients do that from the RRULE.
func Export(w io.Writer, events []models.Event) error {
	cal := ical.NewCalendar()
	cal.SetProductId(constants.ICSProductID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(constants.AppName)

	for _, e := range events {
		addEvent(cal, e)
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	logger.Info("Exported events", "count", len(events))
	return nil
}

func addEvent(cal *ical.Calendar, e models.Event) {
	ve := cal.AddEvent(UID(e.ID))
	ve.SetSummary(e.Title)
	if e.Notes != "" {
		ve.SetDescription(e.Notes)
	}

	stamp, err := time.Parse(constants.TimestampFormat, e.CreatedAt)
	if err != nil {
		stamp = time.Now()
	}
	ve.SetDtStampTime(stamp)

	start, end := layout.Span(e)
	day := utils.ParseDateLenient(e.Date)
	ve.SetProperty(ical.ComponentPropertyDtStart, clockOn(day, start).Format(floatingFormat))
	ve.SetProperty(ical.ComponentPropertyDtEnd, clockOn(day, end).Format(floatingFormat))

	if opt, ok := recurrence.RuleOption(e); ok {
		if !opt.Until.IsZero() {
			// UNTIL is compared against the start of each occurrence.
			opt.Until = opt.Until.Add(24*time.Hour - time.Second)
		}
		ve.AddRrule(opt.RRuleString())
	}
}

func clockOn(day time.Time, minutes int) time.Time {
	return day.Add(time.Duration(minutes) * time.Minute)
}
