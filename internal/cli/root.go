package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/constants"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/scheduler"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/utils"
)

type Context struct {
	Store      storage.Provider
	Scheduler  *scheduler.Scheduler
	Config     *config.Config
	ConfigPath string
	Out        io.Writer
}

// NewContext wires a scheduler over store using cfg's week start.
func NewContext(store storage.Provider, cfg *config.Config, configPath string) *Context {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Context{
		Store:      store,
		Scheduler:  scheduler.New(store, cfg.FirstWeekday()),
		Config:     cfg,
		ConfigPath: configPath,
		Out:        os.Stdout,
	}
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// Today returns the current date in the configured timezone.
func (c *Context) Today() time.Time {
	if c.Config == nil {
		return utils.DateOf(time.Now())
	}
	return c.Config.Today()
}

// ParseDay resolves a date argument. Empty means today; "today",
// "tomorrow" and "yesterday" are relative to today.
func (c *Context) ParseDay(arg string) (time.Time, error) {
	today := c.Today()
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	d, err := utils.ParseDate(strings.TrimSpace(arg))
	if err != nil {
		return time.Time{}, apperrors.Invalidf("invalid date %q (expected YYYY-MM-DD, today, tomorrow or yesterday)", arg)
	}
	return d, nil
}

// ParseMonth resolves a YYYY-MM argument. Empty means the current month.
func (c *Context) ParseMonth(arg string) (int, time.Month, error) {
	if strings.TrimSpace(arg) == "" {
		today := c.Today()
		return today.Year(), today.Month(), nil
	}
	t, err := time.Parse(constants.MonthFormat, strings.TrimSpace(arg))
	if err != nil {
		return 0, 0, apperrors.Invalidf("invalid month %q (expected YYYY-MM)", arg)
	}
	return t.Year(), t.Month(), nil
}

// ParseClock checks an HH:MM flag value.
func ParseClock(flag, value string) error {
	if !utils.ValidateTimeFormat(value) {
		return apperrors.Invalidf("invalid --%s time %q (expected HH:MM)", flag, value)
	}
	return nil
}

// ParseRecurrence checks a --repeat flag value.
func ParseRecurrence(value string) (models.RecurrenceType, error) {
	rt, err := models.ParseRecurrenceType(value)
	if err != nil {
		return "", apperrors.Invalidf("invalid --repeat %q (expected one of %s)", value, RecurrenceNames())
	}
	return rt, nil
}

// RecurrenceNames lists the accepted --repeat values.
func RecurrenceNames() string {
	names := make([]string, len(models.RecurrenceTypes))
	for i, rt := range models.RecurrenceTypes {
		names[i] = strings.ToLower(string(rt))
	}
	return strings.Join(names, "|")
}

// NotFound turns a missing record into an input error naming it.
func NotFound(kind string, id int64, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Invalid(fmt.Errorf("%s %d: %w", kind, id, err))
	}
	return err
}
