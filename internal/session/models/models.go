// Package models holds the session snapshot types shared by the session
// store, service, and handlers.
package models

import (
	"time"

	"aura/internal/backend"
)

// State describes where a session snapshot is in its lifecycle.
type State string

const (
	// StateIdle means no check has happened yet for this session key.
	StateIdle State = "idle"
	// StateLoading means a backend check is in flight and nothing newer
	// than the previous snapshot exists.
	StateLoading State = "loading"
	// StateResolved means the backend answered: Principal is either the
	// identity record or nil when the backend said "no session".
	StateResolved State = "resolved"
	// StateFailed means the last check hit a transient failure. The
	// previous principal, if any, is retained in the snapshot.
	StateFailed State = "failed"
)

// Snapshot is the cached answer to "who is this session". A resolved
// snapshot with a nil Principal is a definitive "not signed in", not an
// absence of data.
type Snapshot struct {
	Principal *backend.Principal `json:"principal"`
	State     State              `json:"state"`

	// Err carries the message of the last transient failure. Empty unless
	// State is StateFailed.
	Err string `json:"error,omitempty"`

	FetchedAt time.Time `json:"fetchedAt"`
}

// Fresh reports whether the snapshot is still inside its staleness window.
// Idle and failed snapshots are never fresh; they must be re-checked.
func (s *Snapshot) Fresh(ttl time.Duration, now time.Time) bool {
	if s == nil || s.State != StateResolved {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}

// Authenticated reports whether the snapshot resolved to a signed-in user.
func (s *Snapshot) Authenticated() bool {
	return s != nil && s.State == StateResolved && s.Principal != nil
}
