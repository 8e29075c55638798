// Package apiclient is the HTTP client for the remote HOS API.
//
// Every request except login, register and refresh carries the bearer token
// from the injected TokenStore. A 401 on such a request triggers exactly one
// recovery: the access token is refreshed (one shared refresh for all
// concurrent 401s) and the request is retried once. When no refresh token is
// stored or the refresh fails, the session is expired and
// domain.ErrSessionExpired is returned. Nothing is ever retried twice.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/metrics"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// TokenStore is the session state the client reads and updates.
// session.Store implements it.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	// UpdateAccessToken persists a refreshed access token.
	UpdateAccessToken(ctx context.Context, token string) error
	// Expire clears the whole session after an unrecoverable auth failure.
	Expire(ctx context.Context)
}

// State is the authentication state seen by the client.
type State int

const (
	// StateExpired means there is no usable access token; the user must log in.
	StateExpired State = iota
	// StateAuthenticated means requests are sent with the stored access token.
	StateAuthenticated
	// StateRefreshing means a token refresh is in flight; 401s wait for it.
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	}
	return "expired"
}

// Client talks to the HOS API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	refreshGroup singleflight.Group
	refreshing   atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records upstream requests and refreshes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for the API served at baseURL (without the /api suffix).
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State reports the current authentication state.
func (c *Client) State() State {
	if c.refreshing.Load() {
		return StateRefreshing
	}
	if c.tokens.AccessToken() == "" {
		return StateExpired
	}
	return StateAuthenticated
}

// request describes one API call.
type request struct {
	method string
	path   string // relative to /api, with trailing slash
	query  url.Values
	body   any
	// public requests (login, register, refresh) carry no token and never
	// trigger a refresh: a 401 there means bad credentials.
	public bool
}

// response is a fully read upstream response.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// do sends req and decodes a 2xx body into out (when non-nil).
//
// Authenticated requests go through at most these transitions:
//
//	send ─ 2xx/4xx/5xx ─────────────────────────────▶ done
//	send ─ 401 ─▶ refresh ─ ok ─▶ send once more ─▶ done
//	                      └ fail ─▶ expire session ─▶ ErrSessionExpired
//
// A stored JWT whose exp claim has passed skips the first send.
func (c *Client) do(ctx context.Context, req request, out any) error {
	resp, err := c.exchange(ctx, req)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return newAPIError(resp)
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrMalformedResponse, req.method, req.path, err)
	}
	return nil
}

// exchange performs the send / refresh / retry sequence and returns the
// final response, whatever its status.
func (c *Client) exchange(ctx context.Context, req request) (response, error) {
	if req.public {
		return c.send(ctx, req, "")
	}

	token := c.tokens.AccessToken()
	if token != "" && c.tokenExpired(token) {
		fresh, err := c.refresh(ctx, token)
		if err != nil {
			return response{}, err
		}
		return c.send(ctx, req, fresh)
	}

	resp, err := c.send(ctx, req, token)
	if err != nil || resp.status != http.StatusUnauthorized {
		return resp, err
	}

	fresh, err := c.refresh(ctx, token)
	if err != nil {
		return response{}, err
	}
	return c.send(ctx, req, fresh)
}

// send performs a single HTTP round trip.
func (c *Client) send(ctx context.Context, req request, token string) (response, error) {
	u := c.baseURL + "/api" + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return response{}, fmt.Errorf("apiclient: encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return response{}, fmt.Errorf("apiclient: build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("X-Request-ID", requestID(ctx))

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.Upstream(req.method, 0, time.Since(start))
		c.logger.WarnContext(ctx, "upstream request failed",
			"method", req.method, "path", req.path, "error", err)
		return response{}, &domain.APIError{Message: err.Error(), Err: err}
	}
	defer httpResp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	c.metrics.Upstream(req.method, httpResp.StatusCode, time.Since(start))
	if err != nil {
		return response{}, &domain.APIError{Status: httpResp.StatusCode, Message: "reading response: " + err.Error(), Err: err}
	}
	c.logger.DebugContext(ctx, "upstream request",
		"method", req.method,
		"path", req.path,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return response{status: httpResp.StatusCode, body: b}, nil
}

// refresh exchanges the refresh token for a new access token. stale is the
// access token the caller sent; if the stored token already differs, another
// caller refreshed in the meantime and the stored one is returned as is.
// Concurrent callers share a single refresh call.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	ch := c.refreshGroup.DoChan("refresh", func() (any, error) {
		if cur := c.tokens.AccessToken(); cur != "" && cur != stale {
			return cur, nil
		}

		c.refreshing.Store(true)
		defer c.refreshing.Store(false)

		// Detached so one caller giving up does not fail the refresh for all.
		rctx := context.WithoutCancel(ctx)

		rt := c.tokens.RefreshToken()
		if rt == "" {
			c.metrics.Refresh("no_refresh_token")
			c.logger.InfoContext(rctx, "session expired: no refresh token stored")
			c.tokens.Expire(rctx)
			return "", domain.ErrSessionExpired
		}

		access, err := c.Refresh(rctx, rt)
		if err != nil {
			c.metrics.Refresh("failed")
			c.logger.WarnContext(rctx, "session expired: token refresh failed", "error", err)
			c.tokens.Expire(rctx)
			return "", fmt.Errorf("%w: refresh failed: %w", domain.ErrSessionExpired, err)
		}
		if err := c.tokens.UpdateAccessToken(rctx, access); err != nil {
			// The new token is still usable for this process.
			c.logger.WarnContext(rctx, "persist refreshed token", "error", err)
		}
		c.metrics.Refresh("ok")
		return access, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque tokens, and JWTs without exp, are never considered expired here;
// the server's 401 decides for them.
func (c *Client) tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !c.now().Before(exp.Time)
}

// requestID reuses the inbound chi request id so upstream logs can be
// correlated; requests without one get a fresh uuid.
func requestID(ctx context.Context) string {
	if id := chimiddleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
