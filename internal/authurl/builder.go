// Package authurl constructs login-initiation URLs. The backend's /api/login
// endpoint performs the cross-origin hop to the identity provider; the
// builder only ever emits same-origin-relative paths.
package authurl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"aura/internal/environment"
)

const (
	// LoginPath is the backend's login-initiation endpoint.
	LoginPath = "/api/login"
	// CallbackPath is where the identity provider returns mobile clients.
	CallbackPath = "/auth-callback"
)

// RedirectState is round-tripped through the identity provider as one opaque
// query parameter on the mobile path. It must survive URL encoding and
// decoding unchanged.
type RedirectState struct {
	Platform    string `json:"platform"`
	Callback    string `json:"callback"`
	RedirectURI string `json:"redirectUri"`
}

// Builder constructs login URLs for both environment verdicts.
type Builder struct {
	loginPath    string
	callbackPath string
}

func NewBuilder() *Builder {
	return &Builder{loginPath: LoginPath, callbackPath: CallbackPath}
}

// BuildLoginURL returns the login-initiation URL for the given verdict.
//
// Web: the optional redirect target rides along as a single plain
// redirectUrl parameter. Mobile: a RedirectState is always embedded,
// JSON-serialized and URL-encoded, as a single state parameter; the
// callback defaults to CallbackPath on the caller's origin.
func (b *Builder) BuildLoginURL(verdict environment.Verdict, origin, redirectTarget string) string {
	if verdict == environment.VerdictMobile {
		callback := redirectTarget
		if callback == "" {
			callback = strings.TrimSuffix(origin, "/") + b.callbackPath
		}
		state := RedirectState{
			Platform:    "mobile",
			Callback:    callback,
			RedirectURI: origin,
		}
		// RedirectState marshals trivially; an error here is impossible.
		raw, _ := json.Marshal(state)
		return fmt.Sprintf("%s?state=%s", b.loginPath, url.QueryEscape(string(raw)))
	}

	if redirectTarget == "" {
		return b.loginPath
	}
	return fmt.Sprintf("%s?redirectUrl=%s", b.loginPath, url.QueryEscape(redirectTarget))
}

// ParseRedirectState decodes a state parameter produced by BuildLoginURL.
// The input is the raw (already URL-decoded) query parameter value.
func ParseRedirectState(raw string) (*RedirectState, error) {
	var state RedirectState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("parse redirect state: %w", err)
	}
	return &state, nil
}
