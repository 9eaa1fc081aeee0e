// Package digest sends the day's agenda on a cron schedule.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/format"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/scheduler"
	"github.com/julianstephens/planner/internal/utils"
)

type Digest struct {
	sched     *scheduler.Scheduler
	sender    Sender
	loc       *time.Location
	now       func() time.Time
	retries   int
	retryWait time.Duration
}

func New(sched *scheduler.Scheduler, sender Sender, loc *time.Location) *Digest {
	if loc == nil {
		loc = time.Local
	}
	return &Digest{
		sched:     sched,
		sender:    sender,
		loc:       loc,
		now:       time.Now,
		retries:   constants.DigestSendRetries,
		retryWait: constants.DigestSendRetryWait,
	}
}

// ParseSchedule validates a five-field cron expression.
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// Text renders the digest for date.
func (d *Digest) Text(date time.Time) (string, error) {
	day, err := d.sched.Day(date)
	if err != nil {
		return "", err
	}
	return format.DigestText(day), nil
}

// SendNow sends today's digest, retrying failed deliveries.
func (d *Digest) SendNow(ctx context.Context) error {
	today := utils.DateOf(d.now().In(d.loc))
	text, err := d.Text(today)
	if err != nil {
		return fmt.Errorf("failed to build digest: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= d.retries; attempt++ {
		if lastErr = d.sender.Send(ctx, text); lastErr == nil {
			logger.Info("Digest sent", "date", utils.FormatDate(today), "attempt", attempt)
			return nil
		}
		logger.Warn("Digest delivery failed", "attempt", attempt, "error", lastErr)
		if attempt == d.retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.retryWait):
		}
	}
	return fmt.Errorf("digest not delivered after %d attempts: %w", d.retries, lastErr)
}

// Run sends a digest each time the cron schedule fires until ctx is cancelled.
func (d *Digest) Run(ctx context.Context, spec string) error {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return err
	}

	c := cron.New(cron.WithLocation(d.loc))
	c.Schedule(schedule, cron.FuncJob(func() {
		if err := d.SendNow(ctx); err != nil {
			logger.Error("Scheduled digest failed", "error", err)
		}
	}))
	c.Start()
	logger.Info("Digest scheduler started", "schedule", spec, "tz", d.loc.String(),
		"next", schedule.Next(d.now().In(d.loc)).Format(constants.TimestampFormat))

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("Digest scheduler stopped")
	return nil
}
