package keyring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
	gokeyring "github.com/zalando/go-keyring"
)

const DefaultService = "nowplayin"

// Store keeps tokens in the OS keychain (macOS Keychain, Secret Service, Windows
// Credential Manager). The keychain account is domain.SecretKeyFor(id).
type Store struct {
	service string
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

func (s *Store) Put(ctx context.Context, id domain.WorkspaceID, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("keyring put %s: token is empty", id)
	}

	if err := gokeyring.Set(s.service, domain.SecretKeyFor(id), token); err != nil {
		return fmt.Errorf("keyring put %s: %w", id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.WorkspaceID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := gokeyring.Get(s.service, domain.SecretKeyFor(id))
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", fmt.Errorf("keyring token for %s: %w", id, domain.ErrSecretNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("keyring get %s: %w", id, err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("keyring token for %s is empty: %w", id, domain.ErrSecretNotFound)
	}
	return token, nil
}

func (s *Store) Delete(ctx context.Context, id domain.WorkspaceID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := gokeyring.Delete(s.service, domain.SecretKeyFor(id))
	if err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return fmt.Errorf("keyring delete %s: %w", id, err)
	}
	return nil
}
