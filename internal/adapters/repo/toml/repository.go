package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	WorkspacesPathKey = "workspaces.path"

	workspacesFileMode = 0o600
	workspacesDirMode  = 0o700
	tempFilePattern    = ".workspaces-*.toml.tmp"
)

type Repository struct {
	workspacesPath string
	mu             *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.WorkspaceRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	workspacesPath := cfg.GetString(WorkspacesPathKey)
	if workspacesPath == "" {
		return nil, errors.New("workspaces path is empty")
	}
	workspacesPath, err := normalizePath(workspacesPath)
	if err != nil {
		return nil, err
	}

	return &Repository{workspacesPath: workspacesPath, mu: lockForPath(workspacesPath)}, nil
}

func (r *Repository) Path() string {
	return r.workspacesPath
}

func (r *Repository) Save(ctx context.Context, workspace domain.Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(workspace)
	updated := false
	for i := range file.Workspaces {
		if file.Workspaces[i].ID == encoded.ID {
			file.Workspaces[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Workspaces = append(file.Workspaces, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) Delete(ctx context.Context, id domain.WorkspaceID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Workspaces[:0]
	found := false
	for _, entry := range file.Workspaces {
		if entry.ID == string(id) {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return domain.ErrWorkspaceNotFound
	}
	file.Workspaces = kept

	return r.writeSchema(file)
}

func (r *Repository) GetByID(ctx context.Context, id domain.WorkspaceID) (domain.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return domain.Workspace{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Workspace{}, err
	}

	for _, entry := range file.Workspaces {
		if entry.ID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.Workspace{}, domain.ErrWorkspaceNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	workspaces := make([]domain.Workspace, 0, len(file.Workspaces))
	for _, entry := range file.Workspaces {
		workspaces = append(workspaces, fromSchema(entry))
	}

	return workspaces, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.workspacesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read workspaces file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode workspaces file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve workspaces path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	dir := filepath.Dir(r.workspacesPath)
	if err := os.MkdirAll(dir, workspacesDirMode); err != nil {
		return fmt.Errorf("create workspaces directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode workspaces file: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp workspaces file: %w", err)
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
		return fmt.Errorf("write temp workspaces file: %w", err)
	}
	if err := tempFile.Chmod(workspacesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp workspaces file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp workspaces file: %w", err)
	}

	if err := os.Rename(tempName, r.workspacesPath); err != nil {
		return fmt.Errorf("replace workspaces file: %w", err)
	}
	cleanup = false

	return nil
}

func toSchema(workspace domain.Workspace) workspaceSchema {
	return workspaceSchema{
		ID:      string(workspace.ID),
		Name:    workspace.Name,
		UserID:  workspace.UserID,
		AddedAt: formatTime(workspace.AddedAt),
	}
}

func fromSchema(entry workspaceSchema) domain.Workspace {
	return domain.Workspace{
		ID:      domain.WorkspaceID(entry.ID),
		Name:    entry.Name,
		UserID:  entry.UserID,
		AddedAt: parseTime(entry.AddedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
