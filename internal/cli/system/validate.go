package system

import (
	"fmt"

	"github.com/julianstephens/planner/internal/cli"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/utils"
	"github.com/julianstephens/planner/internal/validation"
)

// ValidateCmd reports invalid records and overlapping events.
type ValidateCmd struct {
	Date string `arg:"" optional:"" help:"First day to check for overlaps (YYYY-MM-DD, today, tomorrow). Defaults to today."`
	Days int    `short:"n" default:"7" help:"Number of days to check for overlaps."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	if cmd.Days < 1 {
		return apperrors.Invalidf("--days must be at least 1")
	}
	start, err := ctx.ParseDay(cmd.Date)
	if err != nil {
		return err
	}

	events, err := ctx.Store.GetAllEvents()
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	todos, err := ctx.Store.GetAllTodos()
	if err != nil {
		return fmt.Errorf("failed to load todos: %w", err)
	}

	v := validation.New(ctx.Scheduler.WeekStart())

	ctx.Printf("Validating events...\n")
	result := v.ValidateEvents(events)

	ctx.Printf("Validating todos...\n")
	result.Merge(v.ValidateTodos(todos))

	ctx.Printf("Checking %d day(s) from %s for overlaps...\n", cmd.Days, utils.FormatDate(start))
	for i := 0; i < cmd.Days; i++ {
		date := start.AddDate(0, 0, i)
		day, err := ctx.Scheduler.Day(date)
		if err != nil {
			return err
		}
		result.Merge(v.ValidateDay(date, day.Events))
	}

	ctx.Printf("\n%s\n", result.FormatReport())
	return nil
}
