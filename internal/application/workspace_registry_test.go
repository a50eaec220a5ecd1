package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tomlrepo "github.com/mbradley/nowplayin/internal/adapters/repo/toml"
	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

type registryFixture struct {
	repo     *mocks.MockWorkspaceRepository
	store    *mocks.MockSecretStore
	backend  *mocks.MockStatusBackend
	clock    *mocks.MockClock
	registry *WorkspaceRegistry
}

func newRegistryFixture(t *testing.T) *registryFixture {
	t.Helper()

	f := &registryFixture{
		repo:    mocks.NewMockWorkspaceRepository(t),
		store:   mocks.NewMockSecretStore(t),
		backend: mocks.NewMockStatusBackend(t),
		clock:   mocks.NewMockClock(t),
	}
	f.registry = NewWorkspaceRegistry(f.repo, f.store, f.backend, f.clock, nil)
	return f
}

func TestWorkspaceRegistryAddSuccess(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	identified := domain.Workspace{ID: "T1", Name: "Acme", UserID: "U1"}
	stored := identified
	stored.AddedAt = addedAt

	f.backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-1").Return(identified, nil)
	f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T1")).Return(domain.Workspace{}, domain.ErrWorkspaceNotFound)
	f.clock.EXPECT().Now().Return(addedAt)
	f.store.EXPECT().Put(mockAnyContext(), domain.WorkspaceID("T1"), "xoxp-1").Return(nil)
	f.repo.EXPECT().Save(mockAnyContext(), stored).Return(nil)

	workspace, err := f.registry.Add(context.Background(), "  xoxp-1\n")
	require.NoError(t, err)
	assert.Equal(t, stored, workspace)
}

func TestWorkspaceRegistryAddRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)

	_, err := f.registry.Add(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyToken)
}

func TestWorkspaceRegistryAddValidationFailureStoresNothing(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	authErr := &domain.BackendError{Kind: domain.ErrUnauthorized, Op: "auth test", Code: "invalid_auth"}
	f.backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "bad").Return(domain.Workspace{}, authErr)

	_, err := f.registry.Add(context.Background(), "bad")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.True(t, domain.BlocksRegistration(err))
}

func TestWorkspaceRegistryAddDuplicate(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	existing := domain.Workspace{ID: "T1", Name: "Acme"}
	f.backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-2").Return(existing, nil)
	f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T1")).Return(existing, nil)

	_, err := f.registry.Add(context.Background(), "xoxp-2")
	require.ErrorIs(t, err, domain.ErrDuplicateWorkspace)
}

func TestWorkspaceRegistryAddStoreFailure(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	storeErr := errors.New("keyring locked")
	f.backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-1").Return(domain.Workspace{ID: "T1", Name: "Acme"}, nil)
	f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T1")).Return(domain.Workspace{}, domain.ErrWorkspaceNotFound)
	f.clock.EXPECT().Now().Return(addedAt)
	f.store.EXPECT().Put(mockAnyContext(), domain.WorkspaceID("T1"), "xoxp-1").Return(storeErr)

	_, err := f.registry.Add(context.Background(), "xoxp-1")
	require.ErrorIs(t, err, storeErr)
}

func TestWorkspaceRegistryAddRollsBackTokenWhenSaveFails(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	saveErr := errors.New("read-only filesystem")
	f.backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-1").Return(domain.Workspace{ID: "T1", Name: "Acme"}, nil)
	f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T1")).Return(domain.Workspace{}, domain.ErrWorkspaceNotFound)
	f.clock.EXPECT().Now().Return(addedAt)
	f.store.EXPECT().Put(mockAnyContext(), domain.WorkspaceID("T1"), "xoxp-1").Return(nil)
	f.repo.EXPECT().Save(mockAnyContext(), domain.Workspace{ID: "T1", Name: "Acme", AddedAt: addedAt}).Return(saveErr)
	f.store.EXPECT().Delete(mockAnyContext(), domain.WorkspaceID("T1")).Return(nil)

	_, err := f.registry.Add(context.Background(), "xoxp-1")
	require.ErrorIs(t, err, saveErr)
}

func TestWorkspaceRegistryAddReportsFailedRollback(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	saveErr := errors.New("read-only filesystem")
	rollbackErr := errors.New("keyring locked")
	f.backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-1").Return(domain.Workspace{ID: "T1", Name: "Acme"}, nil)
	f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T1")).Return(domain.Workspace{}, domain.ErrWorkspaceNotFound)
	f.clock.EXPECT().Now().Return(addedAt)
	f.store.EXPECT().Put(mockAnyContext(), domain.WorkspaceID("T1"), "xoxp-1").Return(nil)
	f.repo.EXPECT().Save(mockAnyContext(), domain.Workspace{ID: "T1", Name: "Acme", AddedAt: addedAt}).Return(saveErr)
	f.store.EXPECT().Delete(mockAnyContext(), domain.WorkspaceID("T1")).Return(rollbackErr)

	_, err := f.registry.Add(context.Background(), "xoxp-1")
	require.ErrorIs(t, err, saveErr)
	require.ErrorIs(t, err, rollbackErr)
}

func TestWorkspaceRegistryRemoveSuccess(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	workspace := domain.Workspace{ID: "T1", Name: "Acme"}
	f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T1")).Return(workspace, nil)
	f.store.EXPECT().Get(mockAnyContext(), domain.WorkspaceID("T1")).Return("xoxp-1", nil)
	f.store.EXPECT().Delete(mockAnyContext(), domain.WorkspaceID("T1")).Return(nil)
	f.repo.EXPECT().Delete(mockAnyContext(), domain.WorkspaceID("T1")).Return(nil)

	removed, err := f.registry.Remove(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, workspace, removed)
}

func TestWorkspaceRegistryRemoveUnknown(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T9")).Return(domain.Workspace{}, domain.ErrWorkspaceNotFound)

	_, err := f.registry.Remove(context.Background(), "T9")
	require.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}

func TestWorkspaceRegistryRemoveRestoresTokenWhenDeleteFails(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t)
	deleteErr := errors.New("read-only filesystem")
	f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T1")).Return(domain.Workspace{ID: "T1", Name: "Acme"}, nil)
	f.store.EXPECT().Get(mockAnyContext(), domain.WorkspaceID("T1")).Return("xoxp-1", nil)
	f.store.EXPECT().Delete(mockAnyContext(), domain.WorkspaceID("T1")).Return(nil)
	f.repo.EXPECT().Delete(mockAnyContext(), domain.WorkspaceID("T1")).Return(deleteErr)
	f.store.EXPECT().Put(mockAnyContext(), domain.WorkspaceID("T1"), "xoxp-1").Return(nil)

	_, err := f.registry.Remove(context.Background(), "T1")
	require.ErrorIs(t, err, deleteErr)
}

func TestWorkspaceRegistryMigrateLegacyToken(t *testing.T) {
	t.Parallel()

	t.Run("adds when empty", func(t *testing.T) {
		t.Parallel()

		f := newRegistryFixture(t)
		f.repo.EXPECT().List(mockAnyContext()).Return(nil, nil)
		f.backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-old").Return(domain.Workspace{ID: "T1", Name: "Acme"}, nil)
		f.repo.EXPECT().GetByID(mockAnyContext(), domain.WorkspaceID("T1")).Return(domain.Workspace{}, domain.ErrWorkspaceNotFound)
		f.clock.EXPECT().Now().Return(addedAt)
		f.store.EXPECT().Put(mockAnyContext(), domain.WorkspaceID("T1"), "xoxp-old").Return(nil)
		f.repo.EXPECT().Save(mockAnyContext(), domain.Workspace{ID: "T1", Name: "Acme", AddedAt: addedAt}).Return(nil)

		workspace, migrated, err := f.registry.MigrateLegacyToken(context.Background(), "xoxp-old")
		require.NoError(t, err)
		assert.True(t, migrated)
		assert.Equal(t, domain.WorkspaceID("T1"), workspace.ID)
	})

	t.Run("skips when workspaces exist", func(t *testing.T) {
		t.Parallel()

		f := newRegistryFixture(t)
		f.repo.EXPECT().List(mockAnyContext()).Return([]domain.Workspace{{ID: "T2"}}, nil)

		_, migrated, err := f.registry.MigrateLegacyToken(context.Background(), "xoxp-old")
		require.NoError(t, err)
		assert.False(t, migrated)
	})

	t.Run("reports validation failure", func(t *testing.T) {
		t.Parallel()

		f := newRegistryFixture(t)
		f.repo.EXPECT().List(mockAnyContext()).Return(nil, nil)
		f.backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-old").
			Return(domain.Workspace{}, &domain.BackendError{Kind: domain.ErrUnauthorized, Op: "auth test"})

		_, migrated, err := f.registry.MigrateLegacyToken(context.Background(), "xoxp-old")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.False(t, migrated)
	})

	t.Run("ignores blank token", func(t *testing.T) {
		t.Parallel()

		f := newRegistryFixture(t)

		_, migrated, err := f.registry.MigrateLegacyToken(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, migrated)
	})
}

func TestWorkspaceRegistryWithTomlRepository(t *testing.T) {
	t.Parallel()

	cfg := viper.New()
	cfg.Set(tomlrepo.WorkspacesPathKey, filepath.Join(t.TempDir(), "workspaces.toml"))
	repo, err := tomlrepo.NewRepository(cfg)
	require.NoError(t, err)

	store := mocks.NewMockSecretStore(t)
	backend := mocks.NewMockStatusBackend(t)
	clock := mocks.NewMockClock(t)
	registry := NewWorkspaceRegistry(repo, store, backend, clock, nil)

	backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-1").Return(domain.Workspace{ID: "T1", Name: "Acme", UserID: "U1"}, nil).Once()
	backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-2").Return(domain.Workspace{ID: "T2", Name: "Globex"}, nil).Once()
	backend.EXPECT().ValidateAndIdentify(mockAnyContext(), "xoxp-1b").Return(domain.Workspace{ID: "T1", Name: "Acme"}, nil).Once()
	clock.EXPECT().Now().Return(addedAt)
	store.EXPECT().Put(mockAnyContext(), domain.WorkspaceID("T1"), "xoxp-1").Return(nil)
	store.EXPECT().Put(mockAnyContext(), domain.WorkspaceID("T2"), "xoxp-2").Return(nil)

	_, err = registry.Add(context.Background(), "xoxp-1")
	require.NoError(t, err)
	_, err = registry.Add(context.Background(), "xoxp-2")
	require.NoError(t, err)
	_, err = registry.Add(context.Background(), "xoxp-1b")
	require.ErrorIs(t, err, domain.ErrDuplicateWorkspace)

	workspaces, err := registry.List(context.Background())
	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	assert.Equal(t, "Acme", workspaces[0].Name)
	assert.Equal(t, "U1", workspaces[0].UserID)
	assert.True(t, addedAt.Equal(workspaces[0].AddedAt))
}
