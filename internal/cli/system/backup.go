package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/planner/internal/backup"
	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/constants"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/storage/postgres"
)

// autoBackupAge is how old the newest backup may get before the TUI makes
// a fresh one on startup.
const autoBackupAge = 24 * time.Hour

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return nil, apperrors.Invalid(backup.ErrUnsupported)
	}
	return backup.NewManager(ctx.Store.GetConfigPath())
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Printf("No backups found.\n")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), backup.MaxBackups)
	for _, b := range backups {
		ctx.Printf("  %s  %s  (%.1f KB)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			float64(b.Size)/1024.0)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" optional:"" help:"Path or filename of the backup to restore. Defaults to the newest."`
	Yes    bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path, err := c.resolve(mgr)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Replace the current database with %s?", filepath.Base(path))).
			Description("The current database is backed up first.").
			Value(&confirmed).
			WithTheme(huh.ThemeDracula()).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Printf("Restore cancelled.\n")
			return nil
		}
	}

	// SQLite must release the file before it is replaced.
	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}

	safety, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety != "" {
		ctx.Printf("Previous database saved as: %s\n", filepath.Base(safety))
	}
	ctx.Printf("✓ Database restored from %s\n", filepath.Base(path))
	ctx.Printf("Restart any running %s processes to use the restored database.\n", constants.AppName)
	return nil
}

func (c *BackupRestoreCmd) resolve(mgr *backup.Manager) (string, error) {
	if c.Backup == "" {
		latest, err := mgr.Latest()
		if errors.Is(err, backup.ErrNoBackups) {
			return "", apperrors.Invalid(err)
		}
		if err != nil {
			return "", err
		}
		return latest.Path, nil
	}

	path := c.Backup
	if !filepath.IsAbs(path) {
		if candidate := filepath.Join(mgr.Dir(), path); fileExists(candidate) {
			path = candidate
		}
	}
	if !fileExists(path) {
		return "", apperrors.Invalidf("backup file not found: %s", c.Backup)
	}
	return path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// autoBackup snapshots the store when the newest backup is older than
// autoBackupAge. Failures are logged and never stop the caller.
func autoBackup(ctx *cli.Context, now time.Time) {
	mgr, err := backupManager(ctx)
	if err != nil {
		return
	}
	latest, err := mgr.Latest()
	switch {
	case errors.Is(err, backup.ErrNoBackups):
	case err != nil:
		logger.Warn("Failed to check backups", "error", err)
		return
	case now.Sub(latest.Timestamp) < autoBackupAge:
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
