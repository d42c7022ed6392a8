package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/navigation"
	"github.com/NexoraTechHQ/nexora-sub000/session"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 10 * time.Second

// Gateway wraps every outbound data call: it attaches the current access
// token, refreshes stale sessions before dispatch, retries once after a
// refresh forced by a 401, and handles terminal authentication failure by
// tearing the session down and navigating to sign in. It owns no persistent
// state of its own.
type Gateway struct {
	baseURL  string
	client   *http.Client
	sessions *session.Service
	nav      navigation.Navigator
	timeout  time.Duration
	log      zerolog.Logger
}

// Option defines a function type to modify the Gateway instance.
type Option func(*Gateway)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// WithTimeout overrides the per-request budget.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = timeout
	}
}

// WithLogger attaches a logger for request level logging.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) {
		g.log = log
	}
}

// New creates a Gateway rooted at baseURL.
func New(baseURL string, sessions *session.Service, nav navigation.Navigator, options ...Option) (*Gateway, error) {
	if sessions == nil {
		return nil, errors.New("[gateway.New] session service is required")
	}
	if nav == nil {
		return nil, errors.New("[gateway.New] navigator is required")
	}

	gw := &Gateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   http.DefaultClient,
		sessions: sessions,
		nav:      nav,
		timeout:  defaultRequestTimeout,
		log:      zerolog.Nop(),
	}

	for _, opt := range options {
		opt(gw)
	}

	return gw, nil
}

type callConfig struct {
	auth  bool
	query url.Values
}

// CallOption adjusts a single call.
type CallOption func(*callConfig)

// WithoutAuth dispatches the call unmodified, with no bearer credential.
func WithoutAuth() CallOption {
	return func(c *callConfig) {
		c.auth = false
	}
}

// WithQuery appends query parameters to the request URL.
func WithQuery(query url.Values) CallOption {
	return func(c *callConfig) {
		c.query = query
	}
}

func (g *Gateway) Get(ctx context.Context, path string, out any, opts ...CallOption) error {
	return g.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (g *Gateway) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return g.Do(ctx, http.MethodPost, path, body, out, opts...)
}

func (g *Gateway) Put(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return g.Do(ctx, http.MethodPut, path, body, out, opts...)
}

func (g *Gateway) Delete(ctx context.Context, path string, opts ...CallOption) error {
	return g.Do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// Do runs one call through the full session protocol. out, when non-nil, is
// filled from the JSON response body.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	cfg := callConfig{auth: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	requestID := uuid.New().String()
	log := g.log.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()

	if cfg.auth && !g.sessions.IsValid() {
		// The advisory check says stale: refresh before dispatch.
		if err := g.refreshSession(ctx); err != nil {
			// A wait the caller abandoned fails only this call; the shared
			// refresh keeps going and sibling calls consume its result.
			if canceledByCaller(err) {
				return err
			}
			return g.terminate(log, err)
		}
	}

	status, err := g.dispatch(ctx, method, path, body, out, cfg, requestID)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		log.Debug().Int("status", status).Msg("request completed")
		return nil
	}

	// The server's verdict overrides the local validity check: one refresh,
	// one retry, then the termination path. Never more than one
	// logout+redirect per failed call.
	if err := g.refreshSession(ctx); err != nil {
		if canceledByCaller(err) {
			return err
		}
		return g.terminate(log, err)
	}
	status, err = g.dispatch(ctx, method, path, body, out, cfg, requestID)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return g.terminate(log, errors.New("access token rejected after refresh"))
	}

	log.Debug().Int("status", status).Msg("request completed after refresh")
	return nil
}

// refreshSession waits for one coalesced refresh under the request budget,
// so a hung authority cannot block a call that carries no deadline of its
// own. The refresh itself is shared and survives this wait ending.
func (g *Gateway) refreshSession(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, err := g.sessions.Refresh(ctx)
	return err
}

// dispatch performs one HTTP exchange. A 401 on an authenticated call is
// returned as a bare status for Do to arbitrate; every other failure comes
// back as a typed error.
func (g *Gateway) dispatch(ctx context.Context, method, path string, body, out any, cfg callConfig, requestID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, "[Gateway.dispatch] marshal body")
		}
		reader = bytes.NewReader(payload)
	}

	target := g.baseURL + path
	if len(cfg.query) > 0 {
		target += "?" + cfg.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, errors.Wrap(err, "[Gateway.dispatch] build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cfg.auth {
		if tokens := g.sessions.Tokens(); tokens != nil {
			req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return 0, errors.Wrap(TimeoutErr, err.Error())
		}
		return 0, errors.Wrap(NetworkErr, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && cfg.auth {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &HTTPError{StatusCode: resp.StatusCode, Message: serverMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrap(err, "[Gateway.dispatch] decode response")
		}
	}
	return resp.StatusCode, nil
}

// terminate is the single session teardown path: clear the stored session,
// navigate to sign in, and fail the call as expired.
func (g *Gateway) terminate(log zerolog.Logger, cause error) error {
	log.Warn().Err(cause).Msg("session terminated")
	g.sessions.Logout()
	g.nav.NavigateTo(navigation.RouteSignIn)
	return errors.Wrap(SessionExpiredErr, cause.Error())
}

func serverMessage(body io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
