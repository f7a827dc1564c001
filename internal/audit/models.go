package audit

import "time"

// Event is emitted from domain logic to capture key authentication actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         string
	Timestamp  time.Time
	Action     Action
	Outcome    string
	SessionKey string
	RequestID  string
	ClientIP   string
	UserAgent  string
	Detail     string
}

// Action names an auditable gateway action.
type Action string

const (
	ActionLoginInitiated     Action = "login_initiated"
	ActionCallbackResolved   Action = "callback_resolved"
	ActionTokenStored        Action = "token_stored"
	ActionSessionInvalidated Action = "session_invalidated"
	ActionAdminCheck         Action = "admin_check"
	ActionAdminLogout        Action = "admin_logout"
)

// Outcomes shared across actions.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)
