package agenda

import (
	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/format"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, tomorrow, yesterday)."`
	IDs  bool   `help:"Show record IDs."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	day, err := ctx.Scheduler.Day(date)
	if err != nil {
		return err
	}
	format.Day(ctx.Out, day, c.IDs)
	return nil
}

type WeekCmd struct {
	Date string `arg:"" optional:"" help:"Any date inside the week."`
	IDs  bool   `help:"Show record IDs."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	week, err := ctx.Scheduler.Week(date)
	if err != nil {
		return err
	}
	format.Week(ctx.Out, week, c.IDs)
	return nil
}

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month (YYYY-MM)."`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	year, month, err := ctx.ParseMonth(c.Month)
	if err != nil {
		return err
	}
	grid, err := ctx.Scheduler.Month(year, month)
	if err != nil {
		return err
	}
	format.Month(ctx.Out, grid, ctx.Scheduler.WeekStart())
	return nil
}
