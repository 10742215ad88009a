package monitor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

var (
	// ErrAlreadyRunning is returned by WritePID when a live monitor owns the file.
	ErrAlreadyRunning = errors.New("monitor already running")
	// ErrNotRunning is returned by StopDaemon when there is nothing to stop.
	ErrNotRunning = errors.New("monitor not running")
)

// WritePID records the current process in path. A stale file left by a
// dead process is replaced.
func WritePID(path string) error {
	if pid, err := ReadPID(path); err == nil && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644)
}

func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid file %s", path)
	}
	return pid, nil
}

// RemovePID deletes path if it still names the current process.
func RemovePID(path string) error {
	pid, err := ReadPID(path)
	if err != nil || pid != os.Getpid() {
		return nil
	}
	return os.Remove(path)
}

// StopDaemon sends SIGTERM to the monitor recorded in path and removes the
// file. It returns the signalled pid.
func StopDaemon(path string) (int, error) {
	pid, err := ReadPID(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, ErrNotRunning
	}
	if err != nil {
		return 0, err
	}
	if !processAlive(pid) {
		os.Remove(path)
		return pid, fmt.Errorf("%w (stale pid %d)", ErrNotRunning, pid)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return pid, fmt.Errorf("signal monitor: %w", err)
	}
	os.Remove(path)
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
