package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mbradley/nowplayin/internal/application"
)

const (
	FileName = "state.json"

	stateFileMode   = 0o600
	stateDirMode    = 0o700
	tempFilePattern = ".state-*.json.tmp"
)

var ErrNoState = errors.New("no sync state recorded")

// Writer persists engine snapshots so another process can show them.
type Writer struct {
	path   string
	logger *log.Logger

	mu sync.Mutex
}

func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

func NewWriter(path string, logger *log.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Record is an engine OnChange listener. Write failures are logged, not returned.
func (w *Writer) Record(snapshot application.Snapshot) {
	if err := w.Write(snapshot); err != nil && w.logger != nil {
		w.logger.Warn("write sync state", "path", w.path, "err", err)
	}
}

func (w *Writer) Write(snapshot application.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sync state: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tempName, w.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	cleanup = false

	return nil
}

func Read(path string) (application.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return application.Snapshot{}, ErrNoState
		}
		return application.Snapshot{}, fmt.Errorf("read state file: %w", err)
	}

	var snapshot application.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return application.Snapshot{}, fmt.Errorf("decode state file: %w", err)
	}

	return snapshot, nil
}
