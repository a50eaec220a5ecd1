package slack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Options{BaseURL: server.URL, HTTPClient: server.Client()})
}

func TestSetStatusSendsProfileWithMarker(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users.profile.set", r.URL.Path)
		assert.Equal(t, "Bearer xoxp-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))

		var body profileSetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Song - Band", body.Profile.StatusText)
		assert.Equal(t, domain.OwnershipMarker, body.Profile.StatusEmoji)
		assert.Zero(t, body.Profile.StatusExpiration)

		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, client.SetStatus(context.Background(), "xoxp-1", "Song - Band"))
}

func TestClearStatusSendsEmptyTextAndEmoji(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "", body["profile"]["status_text"])
		assert.Equal(t, "", body["profile"]["status_emoji"])

		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, client.ClearStatus(context.Background(), "xoxp-1"))
}

func TestSetStatusTwiceProducesSameRemoteState(t *testing.T) {
	t.Parallel()

	var remote atomic.Value
	remote.Store(profile{})
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var body profileSetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		remote.Store(body.Profile)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, client.SetStatus(context.Background(), "xoxp-1", "Song - Band"))
	first := remote.Load()
	require.NoError(t, client.SetStatus(context.Background(), "xoxp-1", "Song - Band"))

	assert.Equal(t, first, remote.Load())
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetStatusReadsProfile(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users.profile.get", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"profile":{"status_text":"In a meeting","status_emoji":":calendar:"}}`))
	})

	status, err := client.GetStatus(context.Background(), "xoxp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RemoteStatus{Text: "In a meeting", Emoji: ":calendar:"}, status)
	assert.True(t, status.ChangedExternally(domain.OwnershipMarker))
}

func TestValidateAndIdentifyReturnsWorkspace(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth.test", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"team_id":"T123","team":"Acme","user_id":"U9"}`))
	})

	workspace, err := client.ValidateAndIdentify(context.Background(), "xoxp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Workspace{ID: "T123", Name: "Acme", UserID: "U9"}, workspace)
}

func TestValidateAndIdentifyDistinguishesErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		kind   error
		blocks bool
		code   string
	}{
		{name: "invalid auth", status: http.StatusOK, body: `{"ok":false,"error":"invalid_auth"}`, kind: domain.ErrUnauthorized, blocks: true, code: "invalid_auth"},
		{name: "revoked", status: http.StatusOK, body: `{"ok":false,"error":"token_revoked"}`, kind: domain.ErrUnauthorized, blocks: true, code: "token_revoked"},
		{name: "not json", status: http.StatusOK, body: `<html>`, kind: domain.ErrMalformedResponse, blocks: true},
		{name: "missing ok", status: http.StatusOK, body: `{"team_id":"T1"}`, kind: domain.ErrMalformedResponse, blocks: true},
		{name: "missing team", status: http.StatusOK, body: `{"ok":true}`, kind: domain.ErrMalformedResponse, blocks: true},
		{name: "rate limited", status: http.StatusTooManyRequests, body: ``, kind: domain.ErrRateLimited},
		{name: "server error", status: http.StatusBadGateway, body: ``, kind: domain.ErrNetwork},
		{name: "other api error", status: http.StatusOK, body: `{"ok":false,"error":"team_disabled"}`, kind: domain.ErrAPI, code: "team_disabled"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "30")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ValidateAndIdentify(context.Background(), "xoxp-1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.blocks, domain.BlocksRegistration(err))

			var backendErr *domain.BackendError
			require.True(t, errors.As(err, &backendErr))
			assert.Equal(t, tt.code, backendErr.Code)
		})
	}
}

func TestCallReturnsNetworkErrorWhenServerUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(Options{BaseURL: baseURL, RequestTimeout: time.Second})

	err := client.SetStatus(context.Background(), "xoxp-1", "Song - Band")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.False(t, domain.BlocksRegistration(err))
}

func TestCallTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{BaseURL: server.URL, HTTPClient: server.Client(), RequestTimeout: 20 * time.Millisecond})

	err := client.SetStatus(context.Background(), "xoxp-1", "Song - Band")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestBuildAPIURLAppendsTrailingSlash(t *testing.T) {
	t.Parallel()

	endpoint, err := buildAPIURL("https://slack.com/api", profileSetPath)
	require.NoError(t, err)
	assert.Equal(t, "https://slack.com/api/users.profile.set", endpoint)

	_, err = buildAPIURL("ftp://slack.com/api/", profileSetPath)
	require.Error(t, err)
}
