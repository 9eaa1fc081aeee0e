package todos

import (
	"fmt"

	"github.com/julianstephens/planner/internal/cli"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/format"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

type TodoAddCmd struct {
	Title string `arg:"" help:"Todo title."`
	Date  string `short:"d" help:"Date (YYYY-MM-DD, today, tomorrow). Defaults to today."`
	Week  bool   `short:"w" help:"Attach the todo to the week containing the date."`
	Carry bool   `short:"c" help:"Move the todo to the next period until it is done."`
}

func (c *TodoAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	scope := models.TodoScopeDay
	if c.Week {
		scope = models.TodoScopeWeek
	}
	item := ctx.Scheduler.NewTodo(c.Title, date, scope, c.Carry)
	if err := checkTodo(item); err != nil {
		return err
	}

	id, err := ctx.Store.AddTodo(item)
	if err != nil {
		return err
	}
	ctx.Printf("Added todo: %s (ID: %d)\n", item.Title, id)
	return nil
}

type TodoEditCmd struct {
	ID    int64   `arg:"" help:"Todo ID."`
	Title *string `help:"New title."`
	Date  *string `short:"d" help:"Move the todo to another day, or to the week containing it."`
	Carry *bool   `short:"c" help:"Move the todo to the next period until it is done (--carry=false stops it)."`
}

func (c *TodoEditCmd) Run(ctx *cli.Context) error {
	item, err := ctx.Store.GetTodo(c.ID)
	if err != nil {
		return cli.NotFound("todo", c.ID, err)
	}

	if c.Title != nil {
		item = item.WithTitle(*c.Title)
	}
	if c.Carry != nil {
		item = item.WithMoveToNext(*c.Carry)
	}
	if c.Date != nil {
		date, err := ctx.ParseDay(*c.Date)
		if err != nil {
			return err
		}
		item.Date = utils.FormatDate(date)
		if item.Scope == models.TodoScopeWeek {
			start := utils.FormatDate(utils.WeekStart(date, ctx.Scheduler.WeekStart()))
			item.WeekStartDate = &start
		}
	}

	if err := checkTodo(item); err != nil {
		return err
	}
	if err := ctx.Store.UpdateTodo(item); err != nil {
		return err
	}
	ctx.Printf("Updated todo: %s (ID: %d)\n", item.Title, item.ID)
	return nil
}

type TodoDoneCmd struct {
	ID   int64  `arg:"" help:"Todo ID."`
	Date string `short:"d" help:"Day the todo was done on. Defaults to today."`
}

func (c *TodoDoneCmd) Run(ctx *cli.Context) error {
	return setCompleted(ctx, c.ID, true, c.Date)
}

type TodoUndoCmd struct {
	ID int64 `arg:"" help:"Todo ID."`
}

func (c *TodoUndoCmd) Run(ctx *cli.Context) error {
	return setCompleted(ctx, c.ID, false, "")
}

func setCompleted(ctx *cli.Context, id int64, completed bool, day string) error {
	date, err := ctx.ParseDay(day)
	if err != nil {
		return err
	}
	item, err := ctx.Scheduler.ToggleTodo(id, completed, date)
	if err != nil {
		return cli.NotFound("todo", id, err)
	}
	ctx.Printf("%s\n", format.TodoLine(item))
	return nil
}

type TodoDeleteCmd struct {
	ID int64 `arg:"" help:"Todo ID."`
}

func (c *TodoDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteTodo(c.ID); err != nil {
		return cli.NotFound("todo", c.ID, err)
	}
	ctx.Printf("Deleted todo %d\n", c.ID)
	return nil
}

type TodoListCmd struct {
	Date string `arg:"" optional:"" help:"Date to list todos for. Defaults to today."`
	Week bool   `short:"w" help:"List the week todos instead of the day todos."`
}

func (c *TodoListCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	var items []models.TodoItem
	if c.Week {
		week, err := ctx.Scheduler.Week(date)
		if err != nil {
			return err
		}
		ctx.Printf("Week of %s\n", utils.FormatDate(week.Start))
		items = week.Todos
	} else {
		day, err := ctx.Scheduler.Day(date)
		if err != nil {
			return err
		}
		ctx.Printf("%s\n", format.DayHeading(day.Date))
		items = day.Todos
	}

	if len(items) == 0 {
		ctx.Printf("  No todos\n")
		return nil
	}
	for _, t := range items {
		ctx.Printf("%4d  %s\n", t.ID, format.TodoLine(t))
	}
	return nil
}

func checkTodo(t models.TodoItem) error {
	if err := t.Validate(); err != nil {
		return apperrors.Invalid(fmt.Errorf("invalid todo: %w", err))
	}
	return nil
}
