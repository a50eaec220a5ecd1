package ports

import (
	"context"

	"github.com/mbradley/nowplayin/internal/domain"
)

type StatusBackend interface {
	SetStatus(ctx context.Context, token string, text string) error
	ClearStatus(ctx context.Context, token string) error
	GetStatus(ctx context.Context, token string) (domain.RemoteStatus, error)
	ValidateAndIdentify(ctx context.Context, token string) (domain.Workspace, error)
}
