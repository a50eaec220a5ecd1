package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
)

const (
	tokenDirMode  = 0o700
	tokenFileMode = 0o600
	tempPattern   = ".token-*"
)

// Store keeps each workspace token in its own 0600 file under root, at the
// path named by domain.SecretKeyFor. It is the last resort when neither the
// OS keyring nor pass is usable.
type Store struct {
	root string
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, id domain.WorkspaceID, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.tokenPath(id)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("store token for %s: token is empty", id)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, tokenDirMode); err != nil {
		return fmt.Errorf("create token directory for %s: %w", id, err)
	}

	tempFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp token file for %s: %w", id, err)
	}
	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if err := tempFile.Chmod(tokenFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod token file for %s: %w", id, err)
	}
	if _, err := tempFile.WriteString(token + "\n"); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write token file for %s: %w", id, err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close token file for %s: %w", id, err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace token file for %s: %w", id, err)
	}
	cleanup = false

	return nil
}

func (s *Store) Get(ctx context.Context, id domain.WorkspaceID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.tokenPath(id)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("token file for %s: %w", id, domain.ErrSecretNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read token file for %s: %w", id, err)
	}

	// Hand-edited files often end with a newline or carry stray spaces.
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file for %s is empty: %w", id, domain.ErrSecretNotFound)
	}
	return token, nil
}

// Delete removes the token file and its now empty workspace directory.
func (s *Store) Delete(ctx context.Context, id domain.WorkspaceID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.tokenPath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete token file for %s: %w", id, err)
	}
	_ = os.Remove(filepath.Dir(path))

	return nil
}

func (s *Store) tokenPath(id domain.WorkspaceID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(domain.SecretKeyFor(id))), nil
}
