package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store persists audit events. It is append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySessionKey(ctx context.Context, sessionKey string) ([]Event, error)
}

// Publisher captures structured audit events. Persistence failures are
// logged, never propagated: an audit sink outage must not break the
// authentication flow itself.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// Emit records an event, filling ID and timestamp when absent.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil || p.store == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit append failed",
			"action", event.Action,
			"error", err,
		)
	}
}

// List returns events recorded for a session key.
func (p *Publisher) List(ctx context.Context, sessionKey string) ([]Event, error) {
	return p.store.ListBySessionKey(ctx, sessionKey)
}
