package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goodwiins/authflow"
)

const (
	defaultTimeout = 10 * time.Second

	// maxBodyBytes caps response reads; identity payloads are tiny and
	// an unbounded read of a misbehaving server would pin memory.
	maxBodyBytes = 1 << 20
)

// Client talks to the identity service. It implements
// authflow.SessionProvider and is safe for concurrent use, though the
// controller serializes flows anyway.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	loading atomic.Bool

	mu      sync.Mutex
	token   string
	lastErr error
}

// New creates a Client for the service at baseURL. A nil httpClient
// gets a ten second timeout default; a nil logger falls back to
// slog.Default.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With("component", "httpapi_provider"),
	}
}

type sessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
}

type identityResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	ProfileComplete bool   `json:"profile_complete"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login creates a session and fetches the authenticated identity.
func (c *Client) Login(ctx context.Context, email, password string) (*authflow.LoginResult, error) {
	c.loading.Store(true)
	defer c.loading.Store(false)

	sess, err := c.createSession(ctx, email, password)
	if err != nil {
		return nil, c.fail(err)
	}

	identity, err := c.fetchIdentity(ctx, sess.AccessToken)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	c.token = sess.AccessToken
	c.lastErr = nil
	c.mu.Unlock()

	return &authflow.LoginResult{
		Session: sess,
		Identity: &authflow.Identity{
			UserID:          identity.ID,
			Email:           identity.Email,
			Name:            identity.Name,
			ProfileComplete: identity.ProfileComplete,
		},
		NeedsProfileCompletion: !identity.ProfileComplete,
	}, nil
}

// Logout deletes the current session. Without a session it is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	c.loading.Store(true)
	defer c.loading.Store(false)

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/sessions/current", nil)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", authflow.ErrLogoutFailed, err))
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", authflow.ErrLogoutFailed, err))
	}
	defer resp.Body.Close()

	// 401 means the session is already gone on the server; treat the
	// logout as done either way.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusUnauthorized {
		return c.fail(fmt.Errorf("%w: %s", authflow.ErrLogoutFailed, readError(resp)))
	}

	c.mu.Lock()
	c.token = ""
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

// Loading reports whether a remote call is in flight.
func (c *Client) Loading() bool {
	return c.loading.Load()
}

// ClearError clears the provider-side error state.
func (c *Client) ClearError() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

// Err returns the last remote failure, nil after ClearError or any
// successful call.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) createSession(ctx context.Context, email, password string) (*authflow.Session, error) {
	body, err := json.Marshal(sessionRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authflow.ErrLoginFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authflow.ErrLoginFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authflow.ErrLoginFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}

	var sr sessionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode session response: %v", authflow.ErrLoginFailed, err)
	}
	if sr.AccessToken == "" {
		return nil, fmt.Errorf("%w: session response missing access token", authflow.ErrLoginFailed)
	}

	sess := &authflow.Session{
		ID:          sr.SessionID,
		AccessToken: sr.AccessToken,
	}
	if exp, ok := tokenExpiry(sr.AccessToken); ok {
		sess.ExpiresAt = exp
	}
	return sess, nil
}

func (c *Client) fetchIdentity(ctx context.Context, token string) (*identityResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authflow.ErrLoginFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authflow.ErrLoginFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var ir identityResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&ir); err != nil {
		return nil, fmt.Errorf("%w: decode identity response: %v", authflow.ErrLoginFailed, err)
	}
	return &ir, nil
}

func (c *Client) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.logger.Debug("provider call failed", "error", err)
	return err
}

// statusError maps a non-success response onto the root taxonomy,
// keeping the service's message for the substring fallback.
func statusError(resp *http.Response) error {
	msg := readError(resp)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = authflow.ErrInvalidCredentials
	case http.StatusNotFound:
		sentinel = authflow.ErrUserNotFound
	case http.StatusConflict:
		sentinel = authflow.ErrSessionConflict
	case http.StatusTooManyRequests:
		sentinel = authflow.ErrProviderRateLimited
	default:
		sentinel = authflow.ErrLoginFailed
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

func readError(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err == nil {
		var er errorResponse
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			return er.Error
		}
	}
	return fmt.Sprintf("unexpected status %d", resp.StatusCode)
}

// tokenExpiry peeks at the unverified exp claim for display purposes.
func tokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
