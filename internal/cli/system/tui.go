package system

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	autoBackup(ctx, time.Now())

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Scheduler, ctx.Config), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
