package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// NewTodoForm creates a form for adding a todo to the focused period
func NewTodoForm(fm *TodoFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Todo").
				Value(&fm.Title).
				Validate(notBlank("todo")),
			huh.NewConfirm().
				Title("Whole week?").
				Value(&fm.Week),
			huh.NewConfirm().
				Title("Move forward until done?").
				Value(&fm.Carry),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewEventForm creates a form for adding an event
func NewEventForm(fm *EventFormModel) *huh.Form {
	options := make([]huh.Option[models.RecurrenceType], len(models.RecurrenceTypes))
	for i, rt := range models.RecurrenceTypes {
		name := string(rt)
		options[i] = huh.NewOption(name[:1]+strings.ToLower(name[1:]), rt)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(notBlank("title")),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					if _, err := utils.ParseDate(s); err != nil {
						return fmt.Errorf("expected YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Start (HH:MM)").
				Value(&fm.Start).
				Validate(clock(false)),
			huh.NewInput().
				Title("End (HH:MM)").
				Description("Leave empty for a one-hour block").
				Value(&fm.End).
				Validate(clock(true)),
		),
		huh.NewGroup(
			huh.NewSelect[models.RecurrenceType]().
				Title("Repeat").
				Options(options...).
				Value(&fm.Repeat),
			huh.NewInput().
				Title("Until (YYYY-MM-DD)").
				Description("Optional last date").
				Value(&fm.Until).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := utils.ParseDate(s); err != nil {
						return fmt.Errorf("expected YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// Event builds the event described by the form.
func (fm EventFormModel) Event() models.Event {
	var until *string
	if u := strings.TrimSpace(fm.Until); u != "" {
		until = &u
	}
	return models.Event{}.
		WithTitle(strings.TrimSpace(fm.Title)).
		WithDate(strings.TrimSpace(fm.Date)).
		WithTimes(strings.TrimSpace(fm.Start), strings.TrimSpace(fm.End)).
		WithRecurrence(fm.Repeat, until)
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func clock(optional bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" && optional {
			return nil
		}
		if !utils.ValidateTimeFormat(s) {
			return fmt.Errorf("expected HH:MM")
		}
		return nil
	}
}
