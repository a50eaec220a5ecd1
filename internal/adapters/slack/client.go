package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://slack.com/api/"
	maxResponseBytes = 1 << 20
	limiterBurst     = 3

	profileGetPath = "users.profile.get"
	profileSetPath = "users.profile.set"
	authTestPath   = "auth.test"
)

var unauthorizedCodes = map[string]struct{}{
	"invalid_auth":     {},
	"not_authed":       {},
	"token_revoked":    {},
	"token_expired":    {},
	"account_inactive": {},
	"missing_scope":    {},
	"no_permission":    {},
}

type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// RateLimit caps requests per second for a single token. Zero disables limiting.
	RateLimit rate.Limit
	Marker    string
}

type Client struct {
	baseURL        string
	base           http.RoundTripper
	requestTimeout time.Duration
	rateLimit      rate.Limit
	marker         string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

var _ ports.StatusBackend = (*Client)(nil)

func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	var base http.RoundTripper = http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		base = opts.HTTPClient.Transport
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = rate.Inf
	}
	marker := opts.Marker
	if marker == "" {
		marker = domain.OwnershipMarker
	}

	return &Client{
		baseURL:        baseURL,
		base:           base,
		requestTimeout: timeout,
		rateLimit:      limit,
		marker:         marker,
		limiters:       make(map[string]*rate.Limiter),
	}
}

type apiResponse struct {
	OK    *bool  `json:"ok"`
	Error string `json:"error"`
}

func (r apiResponse) envelope() apiResponse {
	return r
}

type enveloped interface {
	envelope() apiResponse
}

type profile struct {
	StatusText       string `json:"status_text"`
	StatusEmoji      string `json:"status_emoji"`
	StatusExpiration int64  `json:"status_expiration"`
}

type profileResponse struct {
	apiResponse
	Profile profile `json:"profile"`
}

type profileSetRequest struct {
	Profile profile `json:"profile"`
}

type authTestResponse struct {
	apiResponse
	TeamID string `json:"team_id"`
	Team   string `json:"team"`
	UserID string `json:"user_id"`
}

func (c *Client) SetStatus(ctx context.Context, token string, text string) error {
	emoji := c.marker
	if text == "" {
		emoji = ""
	}

	var resp apiResponse
	return c.call(ctx, "set status", token, profileSetPath, profileSetRequest{
		Profile: profile{StatusText: text, StatusEmoji: emoji},
	}, &resp)
}

func (c *Client) ClearStatus(ctx context.Context, token string) error {
	return c.SetStatus(ctx, token, "")
}

func (c *Client) GetStatus(ctx context.Context, token string) (domain.RemoteStatus, error) {
	var resp profileResponse
	if err := c.call(ctx, "get status", token, profileGetPath, nil, &resp); err != nil {
		return domain.RemoteStatus{}, err
	}

	return domain.RemoteStatus{
		Text:  resp.Profile.StatusText,
		Emoji: resp.Profile.StatusEmoji,
	}, nil
}

func (c *Client) ValidateAndIdentify(ctx context.Context, token string) (domain.Workspace, error) {
	if token == "" {
		return domain.Workspace{}, &domain.BackendError{Kind: domain.ErrUnauthorized, Op: "validate token", Code: "not_authed"}
	}

	var resp authTestResponse
	if err := c.call(ctx, "validate token", token, authTestPath, nil, &resp); err != nil {
		return domain.Workspace{}, err
	}
	if resp.TeamID == "" {
		return domain.Workspace{}, &domain.BackendError{
			Kind: domain.ErrMalformedResponse,
			Op:   "validate token",
			Err:  errors.New("auth.test response missing team_id"),
		}
	}

	name := resp.Team
	if name == "" {
		name = resp.TeamID
	}

	return domain.Workspace{ID: domain.WorkspaceID(resp.TeamID), Name: name, UserID: resp.UserID}, nil
}

func (c *Client) call(ctx context.Context, op string, token string, path string, body any, out enveloped) error {
	endpoint, err := buildAPIURL(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.limiter(token).Wait(ctx); err != nil {
		return &domain.BackendError{Kind: domain.ErrNetwork, Op: op, Err: err}
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, payload)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.httpClient(token).Do(req)
	if err != nil {
		return &domain.BackendError{Kind: domain.ErrNetwork, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.BackendError{
			Kind: domain.ErrRateLimited,
			Op:   op,
			Err:  fmt.Errorf("retry after %q", resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= http.StatusInternalServerError:
		return &domain.BackendError{Kind: domain.ErrNetwork, Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return &domain.BackendError{Kind: domain.ErrAPI, Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return &domain.BackendError{Kind: domain.ErrMalformedResponse, Op: op, Err: err}
	}

	envelope := out.envelope()
	if envelope.OK == nil {
		return &domain.BackendError{Kind: domain.ErrMalformedResponse, Op: op, Err: errors.New("response missing ok flag")}
	}
	if !*envelope.OK {
		return &domain.BackendError{Kind: classify(envelope.Error), Op: op, Code: envelope.Error}
	}

	return nil
}

func classify(code string) error {
	if _, ok := unauthorizedCodes[code]; ok {
		return domain.ErrUnauthorized
	}
	if code == "ratelimited" {
		return domain.ErrRateLimited
	}
	return domain.ErrAPI
}

func (c *Client) limiter(token string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[token]
	if !ok {
		limiter = rate.NewLimiter(c.rateLimit, limiterBurst)
		c.limiters[token] = limiter
	}
	return limiter
}

func (c *Client) httpClient(token string) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.base,
		},
	}
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.requestTimeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}

	return endpoint.String(), nil
}
