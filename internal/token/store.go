// Package token persists bearer tokens delivered by the mobile callback.
// One fixed key per scope holds the token as a plain string; there is no
// envelope and no expiry metadata stored alongside it.
package token

import "context"

// Storage scopes. The admin surface keeps its own key namespace so an admin
// token can never be read back as a user token.
const (
	ScopeUser  = "auth_token"
	ScopeAdmin = "admin_auth_token"
)

// Store persists bearer tokens. Writes are single-writer in practice (one
// callback resolution at a time per session); reads may come from anywhere.
type Store interface {
	Save(ctx context.Context, scope, token string) error
	Get(ctx context.Context, scope string) (string, error)
	Delete(ctx context.Context, scope string) error
}
