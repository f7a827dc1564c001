// Package callback resolves the token-bearing redirect that ends the mobile
// login flow: parse, verify, store, invalidate, redirect, in that order.
package callback

import (
	"context"
	"log/slog"
	"time"

	"aura/internal/audit"
	"aura/internal/backend"
	"aura/internal/environment"
	"aura/internal/jwttoken"
	"aura/internal/platform/metrics"
	"aura/internal/token"
	"aura/pkg/requestcontext"
)

// State tags a phase of a callback resolution. A resolution moves through
// the phases in order and terminates in StateRedirecting or StateFailed.
type State string

const (
	StateParsing      State = "parsing"
	StateVerifying    State = "verifying"
	StateStoring      State = "storing"
	StateInvalidating State = "invalidating"
	StateRedirecting  State = "redirecting"
	StateFailed       State = "failed"
)

// Redirect targets for terminal states.
const (
	// rootPath is where standard browsers land after a resolved callback.
	rootPath = "/"
	// embeddedLandingPath is the in-app route the embedded wrapper lands on.
	embeddedLandingPath = "/home"
	// failurePath sends the user back through the login flow.
	failurePath = "/api/login"
)

// Request carries the callback query parameters plus the client metadata
// the redirect decision needs.
type Request struct {
	Token   string
	Success string

	SessionKey string
	Hostname   string
	UserAgent  string
}

// Result is the terminal outcome of one resolution pass.
type Result struct {
	State       State
	RedirectURL string

	// Verified reports whether the backend confirmed the token. Under the
	// lenient gate a resolution can redirect with Verified false.
	Verified bool
	// Reason names the failure for StateFailed results and for lenient
	// verification misses.
	Reason string
}

// Verifier is the slice of the backend API the resolver needs.
type Verifier interface {
	VerifyMobileToken(ctx context.Context, tok string) (*backend.VerifyResult, error)
}

// SessionInvalidator drops the cached session snapshot after a token write.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// Resolver executes callback resolutions. Phases never reorder: storing
// waits for verification to settle, invalidation waits for the store write,
// and the redirect always comes last.
type Resolver struct {
	verifier   Verifier
	tokens     token.Store
	sessions   SessionInvalidator
	classifier environment.Classifier

	// settleDelay is how long an embedded client waits before the redirect
	// so the token write settles on the wrapper side.
	settleDelay time.Duration

	// strict turns verification into a hard gate. The default mirrors the
	// historical behavior: log the miss and proceed.
	strict bool

	jwt     *jwttoken.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
}

type Option func(*Resolver)

// WithStrictVerification makes a failed or negative verification abort the
// resolution instead of merely logging it.
func WithStrictVerification() Option {
	return func(r *Resolver) { r.strict = true }
}

// WithJWTService enables local token inspection for diagnostics before the
// backend round-trip.
func WithJWTService(svc *jwttoken.Service) Option {
	return func(r *Resolver) { r.jwt = svc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(r *Resolver) { r.audit = p }
}

func New(verifier Verifier, tokens token.Store, sessions SessionInvalidator,
	classifier environment.Classifier, settleDelay time.Duration, opts ...Option) *Resolver {
	r := &Resolver{
		verifier:    verifier,
		tokens:      tokens,
		sessions:    sessions,
		classifier:  classifier,
		settleDelay: settleDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs one pass of the callback state machine.
func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	result := r.resolve(ctx, req)
	if r.metrics != nil {
		r.metrics.CallbackOutcomes.WithLabelValues(string(result.State)).Inc()
	}
	r.emitAudit(ctx, req, result)
	return result
}

func (r *Resolver) resolve(ctx context.Context, req Request) Result {
	// Parsing.
	if req.Token == "" {
		return r.fail(ctx, "missing token")
	}
	if req.Success != "true" {
		return r.fail(ctx, "callback did not signal success")
	}

	// Verifying. Inspection first: claims and expiry make the logs
	// debuggable even when the backend round-trip fails.
	r.inspect(ctx, req.Token)

	verified, reason := r.verify(ctx, req.Token)
	if !verified && r.strict {
		return r.fail(ctx, reason)
	}

	// Storing.
	if err := r.tokens.Save(ctx, token.ScopeUser, req.Token); err != nil {
		r.logger.ErrorContext(ctx, "callback token write failed", "error", err)
		return r.fail(ctx, "token write failed")
	}
	if r.audit != nil {
		r.audit.Emit(ctx, audit.Event{
			Action:     audit.ActionTokenStored,
			Outcome:    audit.OutcomeOK,
			SessionKey: req.SessionKey,
		})
	}

	// Invalidating. A miss here only delays the refetch until the snapshot
	// goes stale; the resolution still completes.
	if err := r.sessions.Invalidate(ctx, req.SessionKey); err != nil {
		r.logger.WarnContext(ctx, "session invalidation failed after token write",
			"session_key", req.SessionKey,
			"error", err)
	}

	// Redirecting.
	if r.classifier.Classify(req.Hostname, req.UserAgent) == environment.VerdictMobile {
		r.settle(ctx)
		return Result{State: StateRedirecting, RedirectURL: embeddedLandingPath, Verified: verified, Reason: reason}
	}
	return Result{State: StateRedirecting, RedirectURL: rootPath, Verified: verified, Reason: reason}
}

// verify settles the verification phase. It returns whether the backend
// confirmed the token and, when it did not, the reason. Network failure and
// a structured negative answer are distinct misses.
func (r *Resolver) verify(ctx context.Context, tok string) (bool, string) {
	result, err := r.verifier.VerifyMobileToken(ctx, tok)
	if err != nil {
		r.logger.ErrorContext(ctx, "token verification unreachable", "error", err)
		return false, "verification unreachable"
	}
	if !result.Success || !result.Valid {
		r.logger.WarnContext(ctx, "token verification negative",
			"success", result.Success,
			"valid", result.Valid)
		return false, "verification negative"
	}
	return true, ""
}

func (r *Resolver) inspect(ctx context.Context, tok string) {
	if r.jwt == nil {
		return
	}
	claims, err := r.jwt.Inspect(tok)
	if err != nil {
		r.logger.WarnContext(ctx, "callback token is not inspectable", "error", err)
		return
	}
	r.logger.DebugContext(ctx, "callback token inspected",
		"user_id", claims.UserID,
		"expires_in", claims.ExpiresIn(requestcontext.Now(ctx)))
}

func (r *Resolver) fail(ctx context.Context, reason string) Result {
	r.logger.WarnContext(ctx, "callback resolution failed", "reason", reason)
	return Result{State: StateFailed, RedirectURL: failurePath, Reason: reason}
}

// settle waits out the write-settle delay, giving up early if the client
// goes away.
func (r *Resolver) settle(ctx context.Context) {
	if r.settleDelay <= 0 {
		return
	}
	t := time.NewTimer(r.settleDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (r *Resolver) emitAudit(ctx context.Context, req Request, result Result) {
	if r.audit == nil {
		return
	}
	outcome := audit.OutcomeOK
	if result.State == StateFailed {
		outcome = audit.OutcomeFailed
	}
	r.audit.Emit(ctx, audit.Event{
		Action:     audit.ActionCallbackResolved,
		Outcome:    outcome,
		SessionKey: req.SessionKey,
		Detail:     result.Reason,
	})
}
