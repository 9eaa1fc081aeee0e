package system

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/digest"
	"github.com/julianstephens/planner/internal/logger"
)

type DigestCmd struct {
	Once     bool   `help:"Send today's digest now and exit."`
	Schedule string `help:"Cron schedule overriding digest.cron from the config."`
}

func (c *DigestCmd) Run(ctx *cli.Context) error {
	sender, err := digest.SenderFor(ctx.Config, ctx.Out)
	if err != nil {
		return err
	}
	d := digest.New(ctx.Scheduler, sender, ctx.Config.Location())

	if c.Once {
		return d.SendNow(context.Background())
	}

	spec := c.Schedule
	if spec == "" {
		spec = ctx.Config.Digest.Cron
	}
	if _, err := digest.ParseSchedule(spec); err != nil {
		return err
	}

	lock, err := digest.AcquireLock(digest.LockPath(config.Dir(ctx.ConfigPath)))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release digest lock", "error", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Digest scheduled (%s, %s). Press Ctrl+C to stop.\n", spec, ctx.Config.Location())
	return d.Run(runCtx, spec)
}
