package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlayState(t *testing.T) {
	tests := []struct {
		raw  string
		want PlayState
	}{
		{raw: "playing", want: PlayStatePlaying},
		{raw: "Playing", want: PlayStatePlaying},
		{raw: "play", want: PlayStatePlaying},
		{raw: " paused\n", want: PlayStatePaused},
		{raw: "pause", want: PlayStatePaused},
		{raw: "stopped", want: PlayStateStopped},
		{raw: "fast forwarding", want: PlayStateStopped},
		{raw: "", want: PlayStateStopped},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePlayState(tt.raw))
		})
	}
}

func TestTrackDesiredStatus(t *testing.T) {
	tests := []struct {
		name        string
		track       Track
		keepOnPause bool
		want        string
	}{
		{name: "playing", track: Track{Name: "Song", Artist: "Band", State: PlayStatePlaying}, want: "Song - Band"},
		{name: "playing keep on pause", track: Track{Name: "Song", Artist: "Band", State: PlayStatePlaying}, keepOnPause: true, want: "Song - Band"},
		{name: "paused clears", track: Track{Name: "Song", Artist: "Band", State: PlayStatePaused}, want: ""},
		{name: "paused kept", track: Track{Name: "Song", Artist: "Band", State: PlayStatePaused}, keepOnPause: true, want: "Song - Band"},
		{name: "stopped", track: Track{Name: "Song", Artist: "Band", State: PlayStateStopped}, keepOnPause: true, want: ""},
		{name: "unnamed track", track: Track{Artist: "Band", State: PlayStatePlaying}, want: ""},
		{name: "empty artist", track: Track{Name: "Song", State: PlayStatePlaying}, want: "Song - "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.track.DesiredStatus(tt.keepOnPause))
		})
	}
}

func TestRemoteStatusOwnership(t *testing.T) {
	owned := RemoteStatus{Text: "Song - Band", Emoji: OwnershipMarker}
	assert.True(t, owned.OwnedBy(OwnershipMarker))
	assert.False(t, owned.ChangedExternally(OwnershipMarker))

	foreign := RemoteStatus{Text: "In a meeting", Emoji: ":calendar:"}
	assert.False(t, foreign.OwnedBy(OwnershipMarker))
	assert.True(t, foreign.ChangedExternally(OwnershipMarker))

	// An empty status was cleared, not taken over.
	assert.False(t, RemoteStatus{}.ChangedExternally(OwnershipMarker))
}

func TestBackendErrorMatchesItsKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("set status: %w", &BackendError{Kind: ErrNetwork, Op: "users.profile.set", Err: cause})

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "set status: users.profile.set: network error: connection refused", err.Error())

	var backendErr *BackendError
	assert.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "network error", backendErr.Short())
}

func TestBackendErrorShortPrefersCode(t *testing.T) {
	err := &BackendError{Kind: ErrUnauthorized, Op: "auth.test", Code: "invalid_auth"}

	assert.Equal(t, "invalid_auth", err.Short())
	assert.Equal(t, "auth.test: unauthorized (invalid_auth)", err.Error())
}

func TestBlocksRegistration(t *testing.T) {
	assert.True(t, BlocksRegistration(&BackendError{Kind: ErrUnauthorized}))
	assert.True(t, BlocksRegistration(&BackendError{Kind: ErrMalformedResponse}))
	assert.False(t, BlocksRegistration(&BackendError{Kind: ErrNetwork}))
	assert.False(t, BlocksRegistration(&BackendError{Kind: ErrRateLimited}))
	assert.False(t, BlocksRegistration(errors.New("boom")))
}

func TestSecretKeyFor(t *testing.T) {
	assert.Equal(t, "nowplayin/workspaces/T123/token", SecretKeyFor("T123"))
}

func TestWorkspaceIDValidate(t *testing.T) {
	for _, id := range []WorkspaceID{"T0123ABCD", "E01", "team_1-a"} {
		assert.NoError(t, id.Validate(), id)
	}
	for _, id := range []WorkspaceID{"", "..", "../T1", "T1/x", "T 1", "T1\\x"} {
		assert.ErrorIs(t, id.Validate(), ErrInvalidWorkspaceID, id)
	}
}
