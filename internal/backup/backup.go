// Package backup keeps timestamped copies of a file-backed planner store.
// SQLite databases are copied with VACUUM INTO; JSON stores are copied as
// bytes after a syntax check.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/storage"
)

const (
	// MaxBackups is the number of backups kept by rotation
	MaxBackups = 14
	// DirName is the directory next to the store that holds backups
	DirName = "backups"

	filePrefix      = constants.AppName + "-"
	timestampFormat = "20060102-150405"
)

var (
	// ErrNoBackups is returned by Latest when the backup directory is empty.
	ErrNoBackups = errors.New("no backups found")
	// ErrUnsupported is returned for stores that are not a local file.
	ErrUnsupported = errors.New("backups are only supported for SQLite and JSON stores")
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

// Info describes one backup file
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Manager handles backup operations for one store file
type Manager struct {
	dbPath    string
	backupDir string
	ext       string
	json      bool
}

// NewManager returns a manager for the store at dbPath. Backups live in a
// "backups" directory beside it.
func NewManager(dbPath string) (*Manager, error) {
	if storage.IsPostgres(dbPath) {
		return nil, ErrUnsupported
	}
	ext := filepath.Ext(dbPath)
	if ext == "" {
		ext = ".db"
	}
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), DirName),
		ext:       ext,
		json:      storage.IsJSON(dbPath),
	}, nil
}

// Dir returns the backup directory path
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new backup and prunes the oldest beyond MaxBackups.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "dir", m.backupDir, "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	if m.json {
		err = m.copyJSON(path)
	} else {
		err = m.vacuumInto(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}
	logger.Info("Created backup", "path", path)
	return path, nil
}

// nextPath picks an unused name; backups made in the same second get a
// counter suffix.
func (m *Manager) nextPath() (string, error) {
	stamp := nowFunc().Format(timestampFormat)
	path := filepath.Join(m.backupDir, filePrefix+stamp+m.ext)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, n, m.ext))
	}
}

func (m *Manager) vacuumInto(dest string) error {
	db, err := sqlx.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := checkSQLite(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(m.dbPath, dest)
	}
	return nil
}

func (m *Manager) copyJSON(dest string) error {
	if err := checkJSON(m.dbPath); err != nil {
		return fmt.Errorf("source store appears to be corrupted: %w", err)
	}
	return copyFile(m.dbPath, dest)
}

// List returns the available backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, seq, ok := parseName(entry.Name(), m.ext)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: stamp,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})
	return backups, nil
}

// Latest returns the newest backup.
func (m *Manager) Latest() (Info, error) {
	backups, err := m.List()
	if err != nil {
		return Info{}, err
	}
	if len(backups) == 0 {
		return Info{}, ErrNoBackups
	}
	return backups[0], nil
}

// parseName reads "planner-YYYYMMDD-HHMMSS[-N].ext" into its timestamp
// and counter.
func parseName(name, ext string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ext) {
		return time.Time{}, 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ext)
	if len(rest) < len(timestampFormat) {
		return time.Time{}, 0, false
	}
	stamp, err := time.ParseInLocation(timestampFormat, rest[:len(timestampFormat)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	seq := 0
	if suffix := rest[len(timestampFormat):]; suffix != "" {
		if !strings.HasPrefix(suffix, "-") {
			return time.Time{}, 0, false
		}
		if seq, err = strconv.Atoi(suffix[1:]); err != nil {
			return time.Time{}, 0, false
		}
	}
	return stamp, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Restore replaces the store with backupPath. The current store is backed
// up first, without rotation, and that copy's path is returned. The store
// must be closed by the caller.
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); err != nil {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dbPath); err == nil {
		if safety, err = m.create(); err != nil {
			return "", fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return safety, fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Restored backup", "from", backupPath, "to", m.dbPath)
	return safety, nil
}

func (m *Manager) verify(path string) error {
	if m.json {
		return checkJSON(path)
	}
	db, err := sqlx.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return checkSQLite(db)
}

func checkSQLite(db *sqlx.DB) error {
	var count int
	return db.Get(&count, "SELECT COUNT(*) FROM sqlite_master")
}

func checkJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not valid JSON", filepath.Base(path))
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
