package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/logging"
	"github.com/mbradley/nowplayin/internal/ports"
)

var ErrEmptyToken = errors.New("token is empty")

type WorkspaceRegistry struct {
	repo    ports.WorkspaceRepository
	store   ports.SecretStore
	backend ports.StatusBackend
	clock   ports.Clock
	logger  *log.Logger

	mu sync.Mutex
}

func NewWorkspaceRegistry(repo ports.WorkspaceRepository, store ports.SecretStore, backend ports.StatusBackend, clock ports.Clock, logger *log.Logger) *WorkspaceRegistry {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &WorkspaceRegistry{repo: repo, store: store, backend: backend, clock: clock, logger: logger}
}

func (r *WorkspaceRegistry) Add(ctx context.Context, token string) (domain.Workspace, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Workspace{}, ErrEmptyToken
	}

	workspace, err := r.backend.ValidateAndIdentify(ctx, token)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("validate token: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.repo.GetByID(ctx, workspace.ID); err == nil {
		return domain.Workspace{}, fmt.Errorf("%w: %s (%s)", domain.ErrDuplicateWorkspace, workspace.Name, workspace.ID)
	} else if !errors.Is(err, domain.ErrWorkspaceNotFound) {
		return domain.Workspace{}, fmt.Errorf("get workspace by id: %w", err)
	}

	workspace.AddedAt = r.clock.Now()

	if err := r.store.Put(ctx, workspace.ID, token); err != nil {
		return domain.Workspace{}, fmt.Errorf("store workspace token: %w", err)
	}

	if err := r.repo.Save(ctx, workspace); err != nil {
		if rollbackErr := r.store.Delete(ctx, workspace.ID); rollbackErr != nil {
			return domain.Workspace{}, fmt.Errorf("save workspace and rollback stored token: %w", errors.Join(err, rollbackErr))
		}
		return domain.Workspace{}, fmt.Errorf("save workspace: %w", err)
	}

	r.logger.Info("workspace added", "workspace", workspace.ID, "name", workspace.Name)
	return workspace, nil
}

// Remove revokes the workspace token and drops the workspace. A running sync
// loop notices on its next tick, when it re-lists the workspaces.
func (r *WorkspaceRegistry) Remove(ctx context.Context, id domain.WorkspaceID) (domain.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workspace, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("get workspace by id: %w", err)
	}

	previousToken, getErr := r.store.Get(ctx, id)

	if err := r.store.Delete(ctx, id); err != nil {
		return domain.Workspace{}, fmt.Errorf("revoke workspace token: %w", err)
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		if getErr == nil {
			if restoreErr := r.store.Put(ctx, id, previousToken); restoreErr != nil {
				return domain.Workspace{}, fmt.Errorf("delete workspace and restore token: %w", errors.Join(err, restoreErr))
			}
		}
		return domain.Workspace{}, fmt.Errorf("delete workspace: %w", err)
	}

	r.logger.Info("workspace removed", "workspace", id, "name", workspace.Name)
	return workspace, nil
}

func (r *WorkspaceRegistry) List(ctx context.Context) ([]domain.Workspace, error) {
	workspaces, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return workspaces, nil
}

// MigrateLegacyToken adds a single pre-multi-workspace token when no workspace is
// configured yet. It reports whether a workspace was added.
func (r *WorkspaceRegistry) MigrateLegacyToken(ctx context.Context, token string) (domain.Workspace, bool, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Workspace{}, false, nil
	}

	workspaces, err := r.List(ctx)
	if err != nil {
		return domain.Workspace{}, false, err
	}
	if len(workspaces) > 0 {
		return domain.Workspace{}, false, nil
	}

	workspace, err := r.Add(ctx, token)
	if err != nil {
		return domain.Workspace{}, false, fmt.Errorf("migrate legacy token: %w", err)
	}

	return workspace, true, nil
}
