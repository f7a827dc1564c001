package store

import (
	"context"
	"sync"

	"aura/internal/session/models"
	"aura/pkg/platform/sentinel"
)

// Memory is the in-memory SnapshotStore for tests and single-instance
// deployments. Snapshots are copied on both write and read so callers can
// not mutate stored state through shared pointers.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]models.Snapshot
}

func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string]models.Snapshot)}
}

func (s *Memory) Get(_ context.Context, key string) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := snap
	return &out, nil
}

func (s *Memory) Put(_ context.Context, key string, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = *snap
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}
