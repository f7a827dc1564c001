// Package service implements the session cache: one authoritative snapshot
// per session key, refreshed from the backend and shared by every consumer.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"aura/internal/audit"
	"aura/internal/backend"
	"aura/internal/platform/metrics"
	"aura/internal/session/models"
	"aura/internal/session/store"
	"aura/pkg/platform/circuit"
	"aura/pkg/platform/sentinel"
	"aura/pkg/requestcontext"
)

// BackendClient is the slice of the backend API the cache needs.
type BackendClient interface {
	FetchUser(ctx context.Context, cookieHeader string) (*backend.Principal, error)
}

// Cache resolves "who is this session" at most once per staleness window
// and per session key. Concurrent refreshes for the same key collapse into
// a single backend round-trip.
type Cache struct {
	backend BackendClient
	store   store.SnapshotStore

	// ttl is the staleness window for resolved snapshots.
	ttl time.Duration
	// timeout bounds a single backend round-trip. Exceeding it resolves
	// the session as unauthenticated rather than failing it.
	timeout time.Duration

	group   singleflight.Group
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
}

type Option func(*Cache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(c *Cache) { c.audit = p }
}

// WithBreaker installs a circuit breaker on the backend checks. While the
// circuit is open, checks run with a sharply reduced timeout so a down
// backend degrades fast; those probes are also what close the circuit.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Cache) { c.breaker = b }
}

func New(client BackendClient, snapshots store.SnapshotStore, ttl, timeout time.Duration, opts ...Option) *Cache {
	c := &Cache{
		backend: client,
		store:   snapshots,
		ttl:     ttl,
		timeout: timeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the snapshot for the session key, refreshing it when the
// cached one is missing, stale, or failed. A fresh cached snapshot is
// served without touching the backend.
func (c *Cache) Resolve(ctx context.Context, key, cookieHeader string) (*models.Snapshot, error) {
	if snap, err := c.store.Get(ctx, key); err == nil {
		if snap.Fresh(c.ttl, requestcontext.Now(ctx)) {
			return snap, nil
		}
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	return c.Refresh(ctx, key, cookieHeader)
}

// Refresh forces a backend check regardless of snapshot freshness.
// Outcome policy:
//   - backend answers with a principal: resolved, authenticated
//   - backend answers 401/403: resolved, nil principal, no error
//   - check exceeds the timeout: resolved, nil principal, no error
//   - anything else: failed snapshot retaining the previous principal,
//     and the error is surfaced to the caller
//
// There are no retries; the next Resolve past the staleness window is the
// retry.
func (c *Cache) Refresh(ctx context.Context, key, cookieHeader string) (*models.Snapshot, error) {
	snap, err, _ := c.group.Do(key, func() (any, error) {
		return c.refresh(ctx, key, cookieHeader)
	})
	if snap == nil {
		return nil, err
	}
	return snap.(*models.Snapshot), err
}

func (c *Cache) refresh(ctx context.Context, key, cookieHeader string) (*models.Snapshot, error) {
	timeout := c.timeout
	if c.breaker != nil && c.breaker.IsOpen() {
		timeout = c.timeout / 4
	}

	// The refresh outlives the first caller: other requests collapsed into
	// this flight still want the answer if that caller disconnects.
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	start := time.Now()
	principal, err := c.backend.FetchUser(fetchCtx, cookieHeader)
	elapsed := time.Since(start)
	c.record(ctx, err)
	if c.metrics != nil {
		c.metrics.SessionCheckMs.Observe(float64(elapsed.Milliseconds()))
	}

	now := requestcontext.Now(ctx)
	switch {
	case err == nil:
		snap := &models.Snapshot{Principal: principal, State: models.StateResolved, FetchedAt: now}
		c.persist(ctx, key, snap)
		c.observe(metrics.OutcomeAuthenticated)
		return snap, nil

	case errors.Is(err, sentinel.ErrUnauthenticated):
		snap := &models.Snapshot{State: models.StateResolved, FetchedAt: now}
		c.persist(ctx, key, snap)
		c.observe(metrics.OutcomeUnauthenticated)
		return snap, nil

	case errors.Is(err, context.DeadlineExceeded):
		// A backend that cannot answer in time is treated as "no session",
		// not as an outage. The aborted request is not retried.
		c.logger.Warn("session check timed out",
			"session_key", key,
			"timeout", timeout)
		snap := &models.Snapshot{State: models.StateResolved, FetchedAt: now}
		c.persist(ctx, key, snap)
		c.observe(metrics.OutcomeTimeout)
		return snap, nil

	default:
		c.logger.Error("session check failed",
			"session_key", key,
			"error", err)
		snap := &models.Snapshot{
			Principal: c.previousPrincipal(ctx, key),
			State:     models.StateFailed,
			Err:       err.Error(),
			FetchedAt: now,
		}
		c.persist(ctx, key, snap)
		c.observe(metrics.OutcomeError)
		return snap, err
	}
}

// previousPrincipal digs up the principal of the last snapshot so a
// transient backend failure does not log the user out.
func (c *Cache) previousPrincipal(ctx context.Context, key string) *backend.Principal {
	prev, err := c.store.Get(ctx, key)
	if err != nil {
		return nil
	}
	return prev.Principal
}

// Invalidate drops the snapshot so the next Resolve goes to the backend.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.CacheInvalidations.Inc()
	}
	if c.audit != nil {
		c.audit.Emit(ctx, audit.Event{
			Action:     audit.ActionSessionInvalidated,
			Outcome:    audit.OutcomeOK,
			SessionKey: key,
		})
	}
	return nil
}

// record feeds the breaker. A definitive backend answer, 401 included,
// counts as success; only transport-level trouble counts against it.
func (c *Cache) record(ctx context.Context, err error) {
	if c.breaker == nil {
		return
	}
	if err == nil || errors.Is(err, sentinel.ErrUnauthenticated) {
		if _, change := c.breaker.RecordSuccess(); change.Closed {
			c.logger.InfoContext(ctx, "backend circuit closed", "breaker", c.breaker.Name())
		}
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "backend circuit opened", "breaker", c.breaker.Name())
	}
}

// persist writes the snapshot best-effort. A store failure degrades the
// cache to per-request backend checks; it does not fail the resolution.
func (c *Cache) persist(ctx context.Context, key string, snap *models.Snapshot) {
	if err := c.store.Put(context.WithoutCancel(ctx), key, snap); err != nil {
		c.logger.Error("persist session snapshot",
			"session_key", key,
			"error", err)
	}
}

func (c *Cache) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.SessionChecks.WithLabelValues(outcome).Inc()
	}
}
