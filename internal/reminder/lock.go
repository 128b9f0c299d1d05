package reminder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
)

// ErrAlreadyRunning is returned when a live daemon holds the lock.
var ErrAlreadyRunning = errors.New("reminder daemon already running")

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Lock is a pidfile guarding one reminder daemon per config directory.
type Lock struct {
	path string
}

// AcquireLock writes the pidfile in dir. A lockfile left by a process that is
// gone, or that is not habitflow, is taken over.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.ReminderLockfileName)

	if pid, ok := readPID(path); ok && pid != getpidFunc() {
		process, err := findProcessFunc(pid)
		if err == nil && process != nil && strings.HasPrefix(process.Executable(), constants.AppName) {
			return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
		}
		logger.Warn("Replacing stale reminder lock", "pid", pid)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(getpidFunc())), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the pidfile if it still belongs to this process.
func (l *Lock) Release() error {
	if pid, ok := readPID(l.path); ok && pid != getpidFunc() {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
