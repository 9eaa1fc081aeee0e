package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/planner/internal/backup"
	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/digest"
	"github.com/julianstephens/planner/internal/keyring"
	"github.com/julianstephens/planner/internal/migration"
	"github.com/julianstephens/planner/internal/utils"
	"github.com/julianstephens/planner/internal/validation"
)

// schemaStore is implemented by the SQL backends.
type schemaStore interface {
	SchemaRunner() (*migration.Runner, error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Running diagnostics...\n\n")

	d := &diagnosis{ctx: ctx}

	reachable := checkDBReachable(ctx)
	d.check("Database reachable", reachable)
	d.check("Schema version", checkSchemaVersion(ctx))
	d.check("Migrations complete", checkMigrationsComplete(ctx))
	d.warn("Backups present", checkBackupsPresent(ctx))
	if reachable == nil {
		d.check("Data validation", checkValidation(ctx))
	} else {
		ctx.Printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}
	d.check("Clock/timezone", checkClockTimezone(ctx, time.Now()))
	d.check("Digest schedule", checkDigestSchedule(ctx))
	d.warn("OS keyring", checkKeyring())

	ctx.Printf("\n")
	if d.failed {
		ctx.Printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Printf("All diagnostics passed!\n")
	return nil
}

type diagnosis struct {
	ctx    *cli.Context
	failed bool
}

func (d *diagnosis) check(name string, err error) {
	if err != nil {
		d.ctx.Printf("❌ %s: FAIL\n", name)
		d.ctx.Printf("   Error: %v\n", err)
		d.failed = true
		return
	}
	d.ctx.Printf("✓ %s: OK\n", name)
}

func (d *diagnosis) warn(name string, err error) {
	if err != nil {
		d.ctx.Printf("⚠ %s: WARNING\n", name)
		d.ctx.Printf("   %v\n", err)
		return
	}
	d.ctx.Printf("✓ %s: OK\n", name)
}

func checkDBReachable(ctx *cli.Context) error {
	err := ctx.Store.Load()
	if err == nil {
		return nil
	}
	// A schema mismatch still leaves the connection open; the schema
	// checks report it.
	if ss, ok := ctx.Store.(schemaStore); ok {
		if _, rerr := ss.SchemaRunner(); rerr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to load database: %w", err)
}

func schemaVersions(ctx *cli.Context) (current, latest int, ok bool, err error) {
	ss, isSQL := ctx.Store.(schemaStore)
	if !isSQL {
		// JSON stores have no schema.
		return 0, 0, false, nil
	}
	runner, err := ss.SchemaRunner()
	if err != nil {
		return 0, 0, false, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, false, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, false, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if err != nil || !ok {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if err != nil || !ok {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if errors.Is(err, backup.ErrUnsupported) {
		return fmt.Errorf("not available for PostgreSQL; use pg_dump")
	}
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	events, err := ctx.Store.GetAllEvents()
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}
	todos, err := ctx.Store.GetAllTodos()
	if err != nil {
		return fmt.Errorf("failed to get todos: %w", err)
	}

	v := validation.New(ctx.Scheduler.WeekStart())
	result := v.ValidateEvents(events)
	result.Merge(v.ValidateTodos(todos))
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found - run '%s validate' for details", len(result.Conflicts), constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context, now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	return nil
}

func checkDigestSchedule(ctx *cli.Context) error {
	_, err := digest.ParseSchedule(ctx.Config.Digest.Cron)
	return err
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; secrets must come from the environment")
	}
	return nil
}
