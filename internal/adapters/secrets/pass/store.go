package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

// passFunc runs `pass args...` with stdin and returns its trimmed stderr.
type passFunc func(ctx context.Context, stdin string, args ...string) (stdout string, stderr string, err error)

// Store keeps workspace tokens in the password store, one entry per workspace
// named by domain.SecretKeyFor. Only the first line of an entry is the token,
// so users may keep notes below it.
type Store struct {
	pass passFunc
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{pass: runPass}
}

func (s *Store) Put(ctx context.Context, id domain.WorkspaceID, token string) error {
	entry, err := entryFor(ctx, id)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("pass insert %s: token is empty", entry)
	}

	if _, stderr, err := s.pass(ctx, token+"\n", "insert", "--echo", "--force", entry); err != nil {
		return commandError("insert", entry, err, stderr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.WorkspaceID) (string, error) {
	entry, err := entryFor(ctx, id)
	if err != nil {
		return "", err
	}

	stdout, stderr, err := s.pass(ctx, "", "show", entry)
	if err != nil {
		if missingEntry(stderr) {
			return "", fmt.Errorf("pass entry %s: %w", entry, domain.ErrSecretNotFound)
		}
		return "", commandError("show", entry, err, stderr)
	}

	token, _, _ := strings.Cut(stdout, "\n")
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("pass entry %s is empty: %w", entry, domain.ErrSecretNotFound)
	}
	return token, nil
}

func (s *Store) Delete(ctx context.Context, id domain.WorkspaceID) error {
	entry, err := entryFor(ctx, id)
	if err != nil {
		return err
	}

	if _, stderr, err := s.pass(ctx, "", "rm", "--force", entry); err != nil && !missingEntry(stderr) {
		return commandError("rm", entry, err, stderr)
	}
	return nil
}

func entryFor(ctx context.Context, id domain.WorkspaceID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := id.Validate(); err != nil {
		return "", err
	}
	return domain.SecretKeyFor(id), nil
}

func runPass(ctx context.Context, stdin string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if errors.Is(err, exec.ErrNotFound) {
		return "", "", ErrUnavailable
	}
	if err != nil {
		return "", "", fmt.Errorf("locate pass: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func missingEntry(stderr string) bool {
	return strings.Contains(stderr, "is not in the password store")
}

func commandError(op string, entry string, err error, stderr string) error {
	if stderr != "" {
		return fmt.Errorf("pass %s %s: %w: %s", op, entry, err, stderr)
	}
	return fmt.Errorf("pass %s %s: %w", op, entry, err)
}
