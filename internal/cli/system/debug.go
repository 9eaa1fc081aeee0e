package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

// DebugDumpDayCmd prints a day's resolved agenda, including the column
// placement of each occurrence.
type DebugDumpDayCmd struct {
	Date string `arg:"" optional:"" help:"Date to dump (YYYY-MM-DD, today, tomorrow). Defaults to today."`
}

type placementDump struct {
	EventID int64  `json:"event_id"`
	Title   string `json:"title"`
	Column  int    `json:"column"`
	Columns int    `json:"columns"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type dayDump struct {
	Date        string            `json:"date"`
	Occurrences []models.Event    `json:"occurrences"`
	Placements  []placementDump   `json:"placements"`
	Todos       []models.TodoItem `json:"todos"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDay(cmd.Date)
	if err != nil {
		return err
	}
	day, err := ctx.Scheduler.Day(date)
	if err != nil {
		return err
	}

	dump := dayDump{
		Date:        utils.FormatDate(day.Date),
		Occurrences: day.Events,
		Placements:  make([]placementDump, len(day.Placements)),
		Todos:       day.Todos,
	}
	for i, p := range day.Placements {
		dump.Placements[i] = placementDump{
			EventID: p.Event.ID,
			Title:   p.Event.Title,
			Column:  p.Column,
			Columns: p.Columns,
			Start:   utils.FormatMinutes(p.Start),
			End:     utils.FormatMinutes(p.End),
		}
	}
	return printJSON(ctx, dump)
}

type DebugDumpEventCmd struct {
	ID int64 `arg:"" help:"ID of the event to dump."`
}

func (cmd *DebugDumpEventCmd) Run(ctx *cli.Context) error {
	event, err := ctx.Store.GetEvent(cmd.ID)
	if err != nil {
		return cli.NotFound("event", cmd.ID, err)
	}
	return printJSON(ctx, event)
}

type DebugDumpTodoCmd struct {
	ID int64 `arg:"" help:"ID of the todo to dump."`
}

func (cmd *DebugDumpTodoCmd) Run(ctx *cli.Context) error {
	item, err := ctx.Store.GetTodo(cmd.ID)
	if err != nil {
		return cli.NotFound("todo", cmd.ID, err)
	}
	return printJSON(ctx, item)
}

func printJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Printf("%s\n", data)
	return nil
}
