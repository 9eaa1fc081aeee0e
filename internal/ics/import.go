package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/recurrence"
	"github.com/julianstephens/planner/internal/utils"
)

// Import reads the VEVENTs of an iCalendar stream as unsaved events.
// Times with a zone are converted to loc; floating times are kept as
// written. A VEVENT that cannot be read is skipped and reported in
// warnings. A rule without a planner equivalent is dropped with a warning
// and the event is imported once.
func Import(r io.Reader, loc *time.Location) (events []models.Event, warnings []error, err error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	log := logger.With("component", "ics")
	for _, ve := range cal.Events() {
		e, perr := parseEvent(ve, loc)
		if perr != nil {
			log.Warn("Skipping VEVENT", "uid", ve.Id(), "error", perr)
			warnings = append(warnings, perr)
			continue
		}
		if werr := applyRule(&e, ve); werr != nil {
			log.Warn("Dropping recurrence rule", "uid", ve.Id(), "error", werr)
			warnings = append(warnings, werr)
		}
		events = append(events, e)
	}

	log.Info("Imported events", "count", len(events), "warnings", len(warnings))
	return events, warnings, nil
}

func parseEvent(ve *ical.VEvent, loc *time.Location) (models.Event, error) {
	e := models.Event{Recurrence: models.RecurrenceNone}
	label := labelOf(ve)

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Title = strings.TrimSpace(p.Value)
	}
	if e.Title == "" {
		e.Title = "(untitled)"
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		e.Notes = p.Value
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return e, fmt.Errorf("event %q: missing DTSTART", label)
	}

	if isAllDay(startProp) {
		start, err := ve.GetAllDayStartAt()
		if err != nil {
			return e, fmt.Errorf("event %q: %w", label, err)
		}
		e.Date = utils.FormatDate(start)
		e.StartTime = "00:00"
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return e, fmt.Errorf("event %q: %w", label, err)
		}
		start = wallClock(startProp, start, loc)
		e.Date = utils.FormatDate(start)
		e.StartTime = start.Format(constants.TimeFormat)

		if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
			if end, err := ve.GetEndAt(); err == nil {
				end = wallClock(endProp, end, loc)
				// Events ending on a later day are cut at midnight.
				if utils.DateOf(end).Equal(utils.DateOf(start)) && end.After(start) {
					e.EndTime = end.Format(constants.TimeFormat)
				}
			}
		}
	}

	return e, nil
}

// applyRule maps the RRULE of ve onto e. The returned error is a warning:
// e stays a one-off event.
func applyRule(e *models.Event, ve *ical.VEvent) error {
	p := ve.GetProperty(ical.ComponentPropertyRrule)
	if p == nil {
		return nil
	}

	opt, err := rrule.StrToROption(p.Value)
	if err != nil {
		return fmt.Errorf("event %q: unreadable RRULE %q imported as a single event: %v", labelOf(ve), p.Value, err)
	}
	rt, ok := recurrence.RecurrenceFromOption(*opt)
	if !ok {
		return fmt.Errorf("event %q: unsupported RRULE %q imported as a single event", labelOf(ve), p.Value)
	}
	e.Recurrence = rt
	if !opt.Until.IsZero() {
		until := utils.FormatDate(opt.Until)
		e.RecurrenceEndDate = &until
	}
	return nil
}

func labelOf(ve *ical.VEvent) string {
	if id := ve.Id(); id != "" {
		return id
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		return p.Value
	}
	return "?"
}

func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters[string(ical.ParameterValue)]; ok && len(vs) > 0 && strings.EqualFold(vs[0], string(ical.ValueDataTypeDate)) {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// wallClock converts zoned times into loc and leaves floating ones alone.
func wallClock(p *ical.IANAProperty, t time.Time, loc *time.Location) time.Time {
	_, hasTZ := p.ICalParameters["TZID"]
	if hasTZ || strings.HasSuffix(p.Value, "Z") {
		return t.In(loc)
	}
	return t
}
