// Package admin resolves admin sessions against the backend's admin-scoped
// endpoint. It reuses the session cache mechanics with its own snapshot
// namespace and token scope, so an admin check can never leak into the
// regular session surface.
package admin

import (
	"context"
	"log/slog"

	"aura/internal/audit"
	"aura/internal/backend"
	"aura/internal/platform/metrics"
	"aura/internal/session/models"
	sessionservice "aura/internal/session/service"
	"aura/internal/token"
	"aura/pkg/platform/sentinel"
)

// keyPrefix namespaces admin snapshots away from regular session snapshots.
const keyPrefix = "admin:"

// BackendClient is the slice of the backend API the admin service needs.
type BackendClient interface {
	FetchAdminUser(ctx context.Context, cookieHeader string) (*backend.Principal, error)
	AdminLogout(ctx context.Context, cookieHeader string) error
}

// adminFetcher adapts the admin endpoint to the session cache's fetch
// contract and applies the admin type guard: an HTTP-success payload whose
// admin flag is not set resolves to "no admin session", even though the
// backend answered 200.
type adminFetcher struct {
	client BackendClient
}

func (f adminFetcher) FetchUser(ctx context.Context, cookieHeader string) (*backend.Principal, error) {
	principal, err := f.client.FetchAdminUser(ctx, cookieHeader)
	if err != nil {
		return nil, err
	}
	if principal == nil || !principal.Admin {
		return nil, sentinel.ErrUnauthenticated
	}
	return principal, nil
}

// Service answers admin session queries and executes admin logout.
type Service struct {
	backend BackendClient
	cache   *sessionservice.Cache
	tokens  token.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// New constructs the admin service. The cache must have been built over
// Fetcher(client) so the admin guard is installed.
func New(client BackendClient, cache *sessionservice.Cache, tokens token.Store, opts ...Option) *Service {
	s := &Service{
		backend: client,
		cache:   cache,
		tokens:  tokens,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session resolves the admin snapshot for the session key, serving a fresh
// cached snapshot when one exists.
func (s *Service) Session(ctx context.Context, key, cookieHeader string) (*models.Snapshot, error) {
	snap, err := s.cache.Resolve(ctx, adminKey(key), cookieHeader)
	s.observe(snap)
	return snap, err
}

// Refresh forces a backend admin check.
func (s *Service) Refresh(ctx context.Context, key, cookieHeader string) (*models.Snapshot, error) {
	snap, err := s.cache.Refresh(ctx, adminKey(key), cookieHeader)
	s.observe(snap)
	return snap, err
}

// HasPermission reports whether the admin may perform the named action.
// Every authenticated admin currently holds every permission; the predicate
// exists so call sites are already shaped for a real policy.
func (s *Service) HasPermission(snap *models.Snapshot, _ string) bool {
	return snap.Authenticated()
}

// Logout terminates the admin session: backend logout, token removal, and
// snapshot invalidation. Local state is cleared even when the backend call
// fails, so a dead backend cannot pin an admin session in the gateway.
func (s *Service) Logout(ctx context.Context, key, cookieHeader string) error {
	backendErr := s.backend.AdminLogout(ctx, cookieHeader)
	if backendErr != nil {
		s.logger.ErrorContext(ctx, "backend admin logout failed", "error", backendErr)
	}

	if err := s.tokens.Delete(ctx, token.ScopeAdmin); err != nil {
		s.logger.ErrorContext(ctx, "admin token removal failed", "error", err)
		if backendErr == nil {
			backendErr = err
		}
	}
	if err := s.cache.Invalidate(ctx, adminKey(key)); err != nil {
		s.logger.ErrorContext(ctx, "admin snapshot invalidation failed", "error", err)
		if backendErr == nil {
			backendErr = err
		}
	}

	if s.audit != nil {
		outcome := audit.OutcomeOK
		if backendErr != nil {
			outcome = audit.OutcomeFailed
		}
		s.audit.Emit(ctx, audit.Event{
			Action:     audit.ActionAdminLogout,
			Outcome:    outcome,
			SessionKey: key,
		})
	}
	return backendErr
}

func (s *Service) observe(snap *models.Snapshot) {
	if s.metrics == nil || snap == nil {
		return
	}
	switch {
	case snap.Authenticated():
		s.metrics.AdminChecks.WithLabelValues(metrics.OutcomeAuthenticated).Inc()
	case snap.State == models.StateFailed:
		s.metrics.AdminChecks.WithLabelValues(metrics.OutcomeError).Inc()
	default:
		s.metrics.AdminChecks.WithLabelValues(metrics.OutcomeUnauthenticated).Inc()
	}
}

func adminKey(key string) string {
	return keyPrefix + key
}

// Fetcher exposes the guarded admin fetcher for cache construction.
func Fetcher(client BackendClient) sessionservice.BackendClient {
	return adminFetcher{client: client}
}
