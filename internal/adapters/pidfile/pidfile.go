package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

const (
	FileName = "nowplayin.pid"
	fileMode = 0o600
)

var (
	ErrAlreadyRunning = errors.New("sync daemon already running")
	ErrNotRunning     = errors.New("sync daemon not running")
)

// Lock is a pid file holding "PID:TOKEN". Only the holder of TOKEN removes it.
type Lock struct {
	path  string
	token string
}

type Owner struct {
	PID   int
	Token string
}

func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Acquire writes the current pid to path unless a live process already owns it.
// Files left behind by dead processes are replaced.
func Acquire(path string) (*Lock, error) {
	if owner, err := Read(path); err == nil {
		if Alive(owner.PID) && owner.PID != os.Getpid() {
			return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, owner.PID)
		}
	}

	lock := &Lock{path: path, token: uuid.NewString()}
	content := fmt.Sprintf("%d:%s", os.Getpid(), lock.token)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create pid directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), fileMode); err != nil {
		return nil, fmt.Errorf("write pid file: %w", err)
	}

	return lock, nil
}

func (l *Lock) Release() error {
	owner, err := Read(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if owner.Token != l.token {
		return nil
	}

	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}

func Read(path string) (Owner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Owner{}, err
	}

	pidText, token, _ := strings.Cut(strings.TrimSpace(string(data)), ":")
	pid, err := strconv.Atoi(pidText)
	if err != nil || pid <= 0 {
		return Owner{}, fmt.Errorf("parse pid file %s: invalid pid %q", path, pidText)
	}

	return Owner{PID: pid, Token: token}, nil
}

// Running returns the owner of a live daemon, removing stale files on the way.
func Running(path string) (Owner, error) {
	owner, err := Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Owner{}, ErrNotRunning
		}
		return Owner{}, err
	}
	if !Alive(owner.PID) {
		_ = os.Remove(path)
		return Owner{}, ErrNotRunning
	}

	return owner, nil
}

// Terminate sends SIGTERM to the running daemon.
func Terminate(path string) (Owner, error) {
	owner, err := Running(path)
	if err != nil {
		return Owner{}, err
	}

	process, err := os.FindProcess(owner.PID)
	if err != nil {
		return Owner{}, fmt.Errorf("find process %d: %w", owner.PID, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return Owner{}, fmt.Errorf("signal process %d: %w", owner.PID, err)
	}

	return owner, nil
}

func Alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
