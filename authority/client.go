package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/internal/utils"
	"github.com/NexoraTechHQ/nexora-sub000/session"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/NexoraTechHQ/nexora-sub000/users"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	loginPath   = "/v1/auth/login"
	refreshPath = "/v1/auth/refresh"

	defaultTimeout = 10 * time.Second
)

// Client talks to the remote issuing authority. The authority is opaque: a
// rejection surfaces as the matching session error with the server's human
// readable message attached, and nothing about its internals leaks out.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ session.Authority = (*Client)(nil)

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.client = httpClient
	}
}

// NewClient creates an authority client rooted at baseURL.
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// tokenResponse is the authority's token payload. Pointer fields mirror the
// optional members of the wire format.
type tokenResponse struct {
	User         *users.User `json:"user,omitempty"`
	AccessToken  *string     `json:"access_token,omitempty"`
	RefreshToken *string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time  `json:"expires_at,omitempty"`
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type errorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Login exchanges credentials for a profile and token set. rememberMe asks
// the authority for its long session window.
func (c *Client) Login(ctx context.Context, username, password string, rememberMe bool) (*users.User, *tokenstore.Tokens, error) {
	body := loginRequest{Username: username, Password: password, RememberMe: rememberMe}

	var resp tokenResponse
	if err := c.post(ctx, loginPath, body, &resp, session.InvalidCredentialsErr); err != nil {
		return nil, nil, err
	}
	if resp.User == nil {
		return nil, nil, errors.New("[Client.Login] authority response missing user")
	}

	tokens, err := tokensFromResponse(resp)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Client.Login]")
	}
	return resp.User, tokens, nil
}

// Refresh exchanges a refresh token for a new token set.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*tokenstore.Tokens, error) {
	var resp tokenResponse
	if err := c.post(ctx, refreshPath, refreshRequest{RefreshToken: refreshToken}, &resp, session.RefreshRejectedErr); err != nil {
		return nil, err
	}

	tokens, err := tokensFromResponse(resp)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Refresh]")
	}
	return tokens, nil
}

// post sends a JSON request and decodes a JSON response. A 4xx status is an
// authority rejection and wraps rejectionErr; anything else non-2xx is a
// transport level failure.
func (c *Client) post(ctx context.Context, path string, body, out any, rejectionErr error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "[Client.post] marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "[Client.post] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "[Client.post] dispatch")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return errors.Wrap(rejectionErr, rejectionMessage(resp.Body))
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("[Client.post] authority returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "[Client.post] decode response")
	}
	return nil
}

func rejectionMessage(body io.Reader) string {
	var er errorResponse
	if err := json.NewDecoder(body).Decode(&er); err == nil {
		if er.Message != "" {
			return er.Message
		}
		if er.Error != "" {
			return er.Error
		}
	}
	return "authority rejected the request"
}

func tokensFromResponse(resp tokenResponse) (*tokenstore.Tokens, error) {
	access := utils.Value(resp.AccessToken)
	refreshToken := utils.Value(resp.RefreshToken)
	if access == "" || refreshToken == "" {
		return nil, errors.New("authority response missing tokens")
	}

	expiresAt := utils.Value(resp.ExpiresAt)
	if expiresAt.IsZero() {
		claimed, err := accessTokenExpiry(access)
		if err != nil {
			return nil, errors.Wrap(err, "authority response missing expiry")
		}
		expiresAt = claimed
	}

	return &tokenstore.Tokens{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// accessTokenExpiry pulls the exp claim out of a JWT access token. The
// signature is not verified: the server stays authoritative, this is an
// expiry hint for responses that omit expires_at.
func accessTokenExpiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, errors.Wrap(err, "parse access token")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("access token has no exp claim")
	}
	return exp.Time, nil
}
