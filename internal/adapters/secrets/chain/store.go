package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/mbradley/nowplayin/internal/adapters/secrets/file"
	keyringstore "github.com/mbradley/nowplayin/internal/adapters/secrets/keyring"
	passstore "github.com/mbradley/nowplayin/internal/adapters/secrets/pass"
	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
)

const (
	BackendAuto    = "auto"
	BackendKeyring = "keyring"
	BackendPass    = "pass"
	BackendFile    = "file"
)

// Store reads from the primary store first and falls back on any error other than
// cancellation. Writes land in the first store that accepts them; deletes reach both.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// ForBackend builds the secret store named by the secrets.backend setting.
// "auto" chains the OS keyring, then pass, then plain files under fileRoot.
func ForBackend(backend string, fileRoot string) (ports.SecretStore, error) {
	switch backend {
	case "", BackendAuto:
		tail, err := NewStoreChecked(passstore.NewStore(), filestore.NewStore(fileRoot))
		if err != nil {
			return nil, err
		}
		return NewStoreChecked(keyringstore.NewStore(keyringstore.DefaultService), tail)
	case BackendKeyring:
		return keyringstore.NewStore(keyringstore.DefaultService), nil
	case BackendPass:
		return passstore.NewStore(), nil
	case BackendFile:
		return filestore.NewStore(fileRoot), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", backend)
	}
}

func (s *Store) Put(ctx context.Context, id domain.WorkspaceID, token string) error {
	err := s.primary.Put(ctx, id, token)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, id, token)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, id domain.WorkspaceID) (string, error) {
	token, err := s.primary.Get(ctx, id)
	if err == nil {
		return token, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackToken, fallbackErr := s.fallback.Get(ctx, id)
	if fallbackErr == nil {
		return fallbackToken, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// Delete removes the token from both stores, since an earlier Put may have landed in either.
func (s *Store) Delete(ctx context.Context, id domain.WorkspaceID) error {
	err := s.primary.Delete(ctx, id)
	if err != nil && shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, id)
	switch {
	case err == nil && fallbackErr == nil:
		return nil
	case err == nil:
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	case fallbackErr == nil:
		return fmt.Errorf("primary backend delete failed: %w", err)
	default:
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	}
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
