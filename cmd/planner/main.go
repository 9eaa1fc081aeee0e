package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/cli/agenda"
	"github.com/julianstephens/planner/internal/cli/calendar"
	"github.com/julianstephens/planner/internal/cli/events"
	"github.com/julianstephens/planner/internal/cli/system"
	"github.com/julianstephens/planner/internal/cli/todos"
	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/constants"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/storage/backend"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	DB      string `help:"Database override: a .db or .json path, or a PostgreSQL URL without credentials." name:"db"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init  system.InitCmd  `cmd:"" help:"Initialize planner storage."`
	Tui   system.TuiCmd   `cmd:"" help:"Launch the interactive agenda." default:"1"`
	Day   agenda.DayCmd   `cmd:"" help:"Show the agenda for a day."`
	Week  agenda.WeekCmd  `cmd:"" help:"Show the agenda for a week."`
	Month agenda.MonthCmd `cmd:"" help:"Show a month calendar."`
	Event struct {
		Add    events.EventAddCmd    `cmd:"" help:"Add an event."`
		Edit   events.EventEditCmd   `cmd:"" help:"Edit an event."`
		Delete events.EventDeleteCmd `cmd:"" help:"Delete an event."`
		List   events.EventListCmd   `cmd:"" help:"List stored events."`
	} `cmd:"" help:"Manage events."`
	Todo struct {
		Add    todos.TodoAddCmd    `cmd:"" help:"Add a todo."`
		Edit   todos.TodoEditCmd   `cmd:"" help:"Edit a todo."`
		Done   todos.TodoDoneCmd   `cmd:"" help:"Mark a todo completed."`
		Undo   todos.TodoUndoCmd   `cmd:"" help:"Mark a todo not completed."`
		Delete todos.TodoDeleteCmd `cmd:"" help:"Delete a todo."`
		List   todos.TodoListCmd   `cmd:"" help:"List the todos visible on a day or week."`
	} `cmd:"" help:"Manage todos."`
	Export calendar.ExportCmd `cmd:"" help:"Export events as iCalendar."`
	Import calendar.ImportCmd `cmd:"" help:"Import events from an iCalendar file."`
	Digest system.DigestCmd   `cmd:"" help:"Send the daily agenda digest."`
	Backup struct {
		Create  system.BackupCreateCmd  `cmd:"" help:"Create a backup of the database."`
		List    system.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore system.BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
	} `cmd:"" help:"Manage database backups (SQLite and JSON stores)."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored events and todos for problems and overlaps."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a stored secret."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	ConfigCmd struct {
		Show system.ConfigShowCmd `cmd:"" help:"Print the effective configuration." default:"1"`
	} `cmd:"" name:"config" help:"Inspect configuration."`
	DebugCmd struct {
		DBPath    system.DebugDBPathCmd    `cmd:"" help:"Show database path."`
		DumpDay   system.DebugDumpDayCmd   `cmd:"" help:"Dump a day's resolved agenda as JSON."`
		DumpEvent system.DebugDumpEventCmd `cmd:"" help:"Dump an event as JSON."`
		DumpTodo  system.DebugDumpTodoCmd  `cmd:"" help:"Dump a todo as JSON."`
	} `cmd:"" name:"debug" help:"Debugging tools." hidden:""`
}

// commands that run without an open store
var storeless = []string{"init", "keyring", "config", "backup", "doctor"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal planner: events, todos and a day/week/month agenda."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	if err := config.LoadDotEnv(); err != nil {
		apperrors.Fatal(err)
	}
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		apperrors.Fatal(apperrors.Invalid(err))
	}
	if CLI.DB != "" {
		cfg.Database = CLI.DB
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: config.Dir(CLI.Config)}); err != nil {
		apperrors.Fatal(err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "database", backend.Describe(cfg.Database))

	store, err := backend.Open(cfg.Database)
	if err != nil {
		apperrors.Fatal(err)
	}
	appCtx := cli.NewContext(store, cfg, CLI.Config)

	if needsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	apperrors.Fatal(err)
}

func needsStore(command string) bool {
	name, _, _ := strings.Cut(command, " ")
	for _, s := range storeless {
		if name == s {
			return false
		}
	}
	return true
}
