package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aura/internal/backend"
	"aura/internal/session/models"
	"aura/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) TestGetPut() {
	s.Run("returns ErrNotFound for unknown key", func() {
		_, err := s.store.Get(context.Background(), "unknown")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns the stored snapshot", func() {
		snap := &models.Snapshot{
			Principal: &backend.Principal{ID: "u-1", Email: "seeker@aura.social"},
			State:     models.StateResolved,
			FetchedAt: time.Now(),
		}
		s.Require().NoError(s.store.Put(context.Background(), "key-1", snap))

		found, err := s.store.Get(context.Background(), "key-1")
		s.Require().NoError(err)
		s.Equal(snap.Principal.ID, found.Principal.ID)
		s.Equal(models.StateResolved, found.State)
	})

	s.Run("overwrites an existing snapshot", func() {
		ctx := context.Background()
		s.Require().NoError(s.store.Put(ctx, "key-1", &models.Snapshot{State: models.StateResolved}))
		s.Require().NoError(s.store.Put(ctx, "key-1", &models.Snapshot{State: models.StateFailed, Err: "backend down"}))

		found, err := s.store.Get(ctx, "key-1")
		s.Require().NoError(err)
		s.Equal(models.StateFailed, found.State)
		s.Equal("backend down", found.Err)
	})

	s.Run("stored snapshot is isolated from caller mutation", func() {
		ctx := context.Background()
		snap := &models.Snapshot{State: models.StateResolved}
		s.Require().NoError(s.store.Put(ctx, "key-1", snap))

		snap.State = models.StateFailed

		found, err := s.store.Get(ctx, "key-1")
		s.Require().NoError(err)
		s.Equal(models.StateResolved, found.State)
	})
}

func (s *MemoryStoreSuite) TestDelete() {
	s.Run("delete removes the snapshot", func() {
		ctx := context.Background()
		s.Require().NoError(s.store.Put(ctx, "key-1", &models.Snapshot{State: models.StateResolved}))
		s.Require().NoError(s.store.Delete(ctx, "key-1"))

		_, err := s.store.Get(ctx, "key-1")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete of a missing key is a no-op", func() {
		s.NoError(s.store.Delete(context.Background(), "missing"))
	})
}
