package digest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/planner/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is returned when another digest daemon holds the lock.
var ErrAlreadyRunning = errors.New("digest daemon is already running")

// Lock is a pid lockfile guarding one digest daemon per config directory.
type Lock struct {
	path string
	pid  int
}

// LockPath returns the lockfile location inside configDir.
func LockPath(configDir string) string {
	return filepath.Join(configDir, constants.DigestLockfileName)
}

// AcquireLock writes the current pid to path. A lockfile left by a process
// that is gone, or that is not a planner binary, is taken over.
func AcquireLock(path string) (*Lock, error) {
	if pid, ok := readLockPid(path); ok {
		if running, name := isPlannerProcess(pid); running {
			return nil, fmt.Errorf("%w (pid %d, %s)", ErrAlreadyRunning, pid, name)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	pid := getpidFunc()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lockfile if it still belongs to this lock.
func (l *Lock) Release() error {
	if pid, ok := readLockPid(l.path); ok && pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func readLockPid(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func isPlannerProcess(pid int) (bool, string) {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false, ""
	}
	name := process.Executable()
	return strings.HasPrefix(name, constants.AppName), name
}
