package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in Postgres for deployments that need
// the trail to survive restarts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the audit table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id          UUID PRIMARY KEY,
			created_at  TIMESTAMPTZ NOT NULL,
			action      TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			session_key TEXT NOT NULL DEFAULT '',
			request_id  TEXT NOT NULL DEFAULT '',
			client_ip   TEXT NOT NULL DEFAULT '',
			user_agent  TEXT NOT NULL DEFAULT '',
			detail      TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("migrate audit_events: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS audit_events_session_key_idx ON audit_events (session_key)`)
	if err != nil {
		return fmt.Errorf("migrate audit_events index: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events
			(id, created_at, action, outcome, session_key, request_id, client_ip, user_agent, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.Timestamp, string(event.Action), event.Outcome,
		event.SessionKey, event.RequestID, event.ClientIP, event.UserAgent, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySessionKey(ctx context.Context, sessionKey string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, action, outcome, session_key, request_id, client_ip, user_agent, detail
		FROM audit_events
		WHERE session_key = $1
		ORDER BY created_at`,
		sessionKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var action string
		if err := rows.Scan(&e.ID, &e.Timestamp, &action, &e.Outcome,
			&e.SessionKey, &e.RequestID, &e.ClientIP, &e.UserAgent, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
