package ports

import (
	"context"

	"github.com/mbradley/nowplayin/internal/domain"
)

// SecretStore keeps one token per workspace. Get reports a missing or empty
// token as domain.ErrSecretNotFound; any other error means the store itself failed.
type SecretStore interface {
	Get(ctx context.Context, id domain.WorkspaceID) (string, error)
	Put(ctx context.Context, id domain.WorkspaceID, token string) error
	Delete(ctx context.Context, id domain.WorkspaceID) error
}
