package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidWorkspaceIDs(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ids := []domain.WorkspaceID{"", "../escape", "T1/../../etc", "/abs", "T 1"}

	for _, id := range ids {
		t.Run(string(id), func(t *testing.T) {
			err := store.Put(context.Background(), id, "xoxp-1")
			require.ErrorIs(t, err, domain.ErrInvalidWorkspaceID)

			_, err = store.Get(context.Background(), id)
			require.ErrorIs(t, err, domain.ErrInvalidWorkspaceID)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Put(context.Background(), "T1", "  xoxp-1\n"))

	got, err := store.Get(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, "xoxp-1", got)

	path := filepath.Join(root, "nowplayin", "workspaces", "T1", "token")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFileMode), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStorePutReplacesExistingToken(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(context.Background(), "T1", "xoxp-old"))
	require.NoError(t, store.Put(context.Background(), "T1", "xoxp-new"))

	got, err := store.Get(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, "xoxp-new", got)
}

func TestStorePutRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	require.Error(t, store.Put(context.Background(), "T1", "   "))
	assert.NoFileExists(t, filepath.Join(root, "nowplayin", "workspaces", "T1", "token"))
}

func TestStoreGetMissingOrEmptyReturnsSecretNotFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	_, err := store.Get(context.Background(), "T9")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)

	path := filepath.Join(root, "nowplayin", "workspaces", "T8", "token")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	_, err = store.Get(context.Background(), "T8")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteRemovesWorkspaceDirectoryAndIsIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	require.NoError(t, store.Put(context.Background(), "T1", "xoxp-1"))

	require.NoError(t, store.Delete(context.Background(), "T1"))
	assert.NoDirExists(t, filepath.Join(root, "nowplayin", "workspaces", "T1"))

	require.NoError(t, store.Delete(context.Background(), "T1"))
	_, err := store.Get(context.Background(), "T1")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreReturnsContextError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, NewStore(t.TempDir()).Put(ctx, "T1", "xoxp-1"), context.Canceled)
}
