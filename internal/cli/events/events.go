package events

import (
	"fmt"
	"sort"

	"github.com/julianstephens/planner/internal/cli"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/format"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

type EventAddCmd struct {
	Title  string `arg:"" help:"Event title."`
	Date   string `short:"d" help:"Date (YYYY-MM-DD, today, tomorrow). Defaults to today."`
	Start  string `short:"s" help:"Start time (HH:MM)." required:""`
	End    string `short:"e" help:"End time (HH:MM)."`
	Repeat string `short:"r" help:"Recurrence (none|daily|weekly|monthly|yearly)." default:"none"`
	Until  string `short:"u" help:"Last date the event may recur on (YYYY-MM-DD)."`
	Notes  string `short:"n" help:"Free-form notes."`
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	if err := cli.ParseClock("start", c.Start); err != nil {
		return err
	}
	if c.End != "" {
		if err := cli.ParseClock("end", c.End); err != nil {
			return err
		}
	}
	rt, err := cli.ParseRecurrence(c.Repeat)
	if err != nil {
		return err
	}

	event := models.Event{}.
		WithTitle(c.Title).
		WithNotes(c.Notes).
		WithDate(utils.FormatDate(date)).
		WithTimes(c.Start, c.End).
		WithRecurrence(rt, optional(c.Until))
	if err := checkEvent(event); err != nil {
		return err
	}

	id, err := ctx.Store.AddEvent(event)
	if err != nil {
		return err
	}
	ctx.Printf("Added event: %s (ID: %d)\n", event.Title, id)
	return nil
}

type EventEditCmd struct {
	ID     int64   `arg:"" help:"Event ID."`
	Title  *string `help:"New title."`
	Date   *string `short:"d" help:"New anchor date."`
	Start  *string `short:"s" help:"New start time (HH:MM)."`
	End    *string `short:"e" help:"New end time (HH:MM); empty clears it."`
	Repeat *string `short:"r" help:"New recurrence (none|daily|weekly|monthly|yearly)."`
	Until  *string `short:"u" help:"New recurrence end date; empty clears it."`
	Notes  *string `short:"n" help:"New notes."`
}

func (c *EventEditCmd) Run(ctx *cli.Context) error {
	event, err := ctx.Store.GetEvent(c.ID)
	if err != nil {
		return cli.NotFound("event", c.ID, err)
	}

	updated := event
	if c.Title != nil {
		updated = updated.WithTitle(*c.Title)
	}
	if c.Notes != nil {
		updated = updated.WithNotes(*c.Notes)
	}
	if c.Date != nil {
		date, err := ctx.ParseDay(*c.Date)
		if err != nil {
			return err
		}
		updated = updated.WithDate(utils.FormatDate(date))
	}
	start, end := updated.StartTime, updated.EndTime
	if c.Start != nil {
		if err := cli.ParseClock("start", *c.Start); err != nil {
			return err
		}
		start = *c.Start
	}
	if c.End != nil {
		if *c.End != "" {
			if err := cli.ParseClock("end", *c.End); err != nil {
				return err
			}
		}
		end = *c.End
	}
	updated = updated.WithTimes(start, end)

	rt, until := updated.Recurrence, updated.RecurrenceEndDate
	if c.Repeat != nil {
		if rt, err = cli.ParseRecurrence(*c.Repeat); err != nil {
			return err
		}
	}
	if c.Until != nil {
		until = optional(*c.Until)
	}
	updated = event.Replace(updated.WithRecurrence(rt, until))

	if err := checkEvent(updated); err != nil {
		return err
	}
	if err := ctx.Store.UpdateEvent(updated); err != nil {
		return err
	}
	ctx.Printf("Updated event: %s (ID: %d)\n", updated.Title, updated.ID)
	return nil
}

type EventDeleteCmd struct {
	ID int64 `arg:"" help:"Event ID."`
}

func (c *EventDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteEvent(c.ID); err != nil {
		return cli.NotFound("event", c.ID, err)
	}
	ctx.Printf("Deleted event %d\n", c.ID)
	return nil
}

type EventListCmd struct {
	Recurring bool `help:"Only list recurring events."`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	var all []models.Event
	var err error
	if c.Recurring {
		all, err = ctx.Store.GetRecurringEvents()
	} else {
		all, err = ctx.Store.GetAllEvents()
	}
	if err != nil {
		return err
	}
	if len(all) == 0 {
		ctx.Printf("No events found.\n")
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date < all[j].Date
		}
		return all[i].StartTime < all[j].StartTime
	})
	for _, e := range all {
		ctx.Printf("%4d  %s  %s\n", e.ID, e.Date, format.EventLine(e))
	}
	return nil
}

func checkEvent(e models.Event) error {
	if err := e.Validate(); err != nil {
		return apperrors.Invalid(fmt.Errorf("invalid event: %w", err))
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
