// Package store persists session snapshots keyed by hashed session cookie.
package store

import (
	"context"

	"aura/internal/session/models"
)

// SnapshotStore keeps the latest snapshot per session key. Get returns
// sentinel.ErrNotFound when no snapshot exists; staleness is judged by the
// service, not the store, so a stale snapshot is still returned.
type SnapshotStore interface {
	Get(ctx context.Context, key string) (*models.Snapshot, error)
	Put(ctx context.Context, key string, snap *models.Snapshot) error
	Delete(ctx context.Context, key string) error
}
