// Package backend is the HTTP client for the application backend's identity
// endpoints. The backend owns the identity-provider dance; this client only
// consumes its session facts.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"aura/pkg/platform/sentinel"
)

const (
	userPath         = "/api/auth/user"
	adminUserPath    = "/api/admin/user"
	mobileVerifyPath = "/api/auth/mobile-verify"
	adminLogoutPath  = "/api/admin/logout"
)

// Principal is the identity record the backend returns for a session. The
// payload shape belongs to the backend; only the fields the gateway routes
// on are named, the rest rides along in Raw.
type Principal struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Admin       bool   `json:"isAdmin,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// VerifyResult is the backend's answer to a mobile token verification.
type VerifyResult struct {
	Success bool `json:"success"`
	Valid   bool `json:"valid"`
}

// Client talks to the backend identity endpoints. Cookies are passed
// through verbatim; the gateway holds no credentials of its own.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New constructs a backend client. Deadlines come from the caller's
// context, not the transport, so each call site keeps its own budget.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUser resolves the principal for a session cookie.
// Returns sentinel.ErrUnauthenticated for 401/403 (a fact, not a failure)
// and sentinel.ErrUnavailable for every other non-200 outcome.
func (c *Client) FetchUser(ctx context.Context, cookieHeader string) (*Principal, error) {
	return c.fetchPrincipal(ctx, userPath, cookieHeader)
}

// FetchAdminUser resolves the admin principal for a session cookie against
// the admin-scoped endpoint. Same error contract as FetchUser.
func (c *Client) FetchAdminUser(ctx context.Context, cookieHeader string) (*Principal, error) {
	return c.fetchPrincipal(ctx, adminUserPath, cookieHeader)
}

func (c *Client) fetchPrincipal(ctx context.Context, path, cookieHeader string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session check %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read principal: %w", err)
		}
		var p Principal
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode principal: %w", err)
		}
		p.Raw = body
		return &p, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// No body guarantee on 401/403; drain and report the fact.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, sentinel.ErrUnauthenticated
	default:
		return nil, fmt.Errorf("session check %s: status %d: %w", path, resp.StatusCode, sentinel.ErrUnavailable)
	}
}

// VerifyMobileToken posts a callback token to the backend for verification.
// A reachable backend that answers with a negative result is not an error;
// the caller decides what a negative verification means.
func (c *Client) VerifyMobileToken(ctx context.Context, token string) (*VerifyResult, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mobileVerifyPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("verify token: status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var result VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	return &result, nil
}

// AdminLogout terminates the admin session on the backend.
func (c *Client) AdminLogout(ctx context.Context, cookieHeader string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+adminLogoutPath, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("admin logout: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("admin logout: status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
	return nil
}
