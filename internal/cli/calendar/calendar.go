package calendar

import (
	"fmt"
	"os"

	"github.com/julianstephens/planner/internal/cli"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/format"
	"github.com/julianstephens/planner/internal/ics"
	"github.com/julianstephens/planner/internal/logger"
)

type ExportCmd struct {
	Out string `short:"o" help:"Write the calendar to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	events, err := ctx.Store.GetAllEvents()
	if err != nil {
		return err
	}

	if c.Out == "" {
		return ics.Export(ctx.Out, events)
	}

	f, err := os.OpenFile(c.Out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Out, err)
	}
	if err := ics.Export(f, events); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	ctx.Printf("Exported %d event(s) to %s\n", len(events), c.Out)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"iCalendar (.ics) file to import." type:"existingfile"`
	DryRun bool   `help:"Show what would be imported without saving."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	events, warnings, err := ics.Import(f, ctx.Config.Location())
	if err != nil {
		return apperrors.Invalid(fmt.Errorf("failed to read %s: %w", c.File, err))
	}
	for _, w := range warnings {
		logger.Warn("Import warning", "file", c.File, "warning", w)
		ctx.Printf("warning: %v\n", w)
	}

	imported := 0
	for _, e := range events {
		if c.DryRun {
			ctx.Printf("  %s  %s\n", e.Date, format.EventLine(e))
			continue
		}
		if _, err := ctx.Store.AddEvent(e); err != nil {
			return fmt.Errorf("failed to save %q after %d imported: %w", e.Title, imported, err)
		}
		imported++
	}

	if c.DryRun {
		ctx.Printf("%d event(s) would be imported\n", len(events))
		return nil
	}
	ctx.Printf("Imported %d event(s) from %s\n", imported, c.File)
	return nil
}
