package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/mbradley/nowplayin/internal/domain"
	portmocks "github.com/mbradley/nowplayin/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const workspaceID domain.WorkspaceID = "T1"

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, workspaceID).Return("from-keyring", nil).Once()

	value, err := store.Get(context.Background(), workspaceID)
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, workspaceID).Return("", errors.New("keyring locked")).Once()
	fallback.EXPECT().Get(mock.Anything, workspaceID).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), workspaceID)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetKeepsNotFoundWhenBothBackendsMiss(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, workspaceID).Return("", domain.ErrSecretNotFound).Once()
	fallback.EXPECT().Get(mock.Anything, workspaceID).Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), workspaceID)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "fallback backend")
	assert.ErrorContains(t, err, "file failed")
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, workspaceID, "xoxp-1").Return(errors.New("no secret service")).Once()
	fallback.EXPECT().Put(mock.Anything, workspaceID, "xoxp-1").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), workspaceID, "xoxp-1"))
}

func TestStorePutDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, workspaceID, "xoxp-1").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), workspaceID, "xoxp-1"))
}

func TestStoreDeleteReachesBothBackends(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, workspaceID).Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, workspaceID).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), workspaceID))
}

func TestStoreDeleteReportsFailingBackend(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, workspaceID).Return(errors.New("keyring locked")).Once()
	fallback.EXPECT().Delete(mock.Anything, workspaceID).Return(nil).Once()

	err := store.Delete(context.Background(), workspaceID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary backend delete failed")
}

func TestStoreGetDoesNotFallbackOnCanceledContextError(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, workspaceID).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), workspaceID)
	require.ErrorIs(t, err, context.Canceled)
}

func TestForBackendRejectsUnknownName(t *testing.T) {
	t.Parallel()

	_, err := ForBackend("vault", t.TempDir())
	require.Error(t, err)

	store, err := ForBackend(BackendFile, t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, store)

	auto, err := ForBackend(BackendAuto, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &Store{}, auto)
}
