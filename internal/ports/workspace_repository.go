package ports

import (
	"context"

	"github.com/mbradley/nowplayin/internal/domain"
)

type WorkspaceRepository interface {
	GetByID(ctx context.Context, id domain.WorkspaceID) (domain.Workspace, error)
	List(ctx context.Context) ([]domain.Workspace, error)
	Save(ctx context.Context, workspace domain.Workspace) error
	Delete(ctx context.Context, id domain.WorkspaceID) error
}
