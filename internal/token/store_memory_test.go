package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"aura/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) SetupSubTest() {
	s.SetupTest()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) TestSaveAndGet() {
	s.Run("returns saved token", func() {
		s.Require().NoError(s.store.Save(s.ctx, ScopeUser, "tok-1"))

		got, err := s.store.Get(s.ctx, ScopeUser)
		s.Require().NoError(err)
		s.Equal("tok-1", got)
	})

	s.Run("save replaces the previous token", func() {
		s.Require().NoError(s.store.Save(s.ctx, ScopeUser, "tok-1"))
		s.Require().NoError(s.store.Save(s.ctx, ScopeUser, "tok-2"))

		got, err := s.store.Get(s.ctx, ScopeUser)
		s.Require().NoError(err)
		s.Equal("tok-2", got)
	})

	s.Run("missing scope returns ErrNotFound", func() {
		_, err := s.store.Get(s.ctx, ScopeUser)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestScopeIsolation() {
	s.Run("admin and user scopes do not mix", func() {
		s.Require().NoError(s.store.Save(s.ctx, ScopeUser, "user-tok"))
		s.Require().NoError(s.store.Save(s.ctx, ScopeAdmin, "admin-tok"))

		user, err := s.store.Get(s.ctx, ScopeUser)
		s.Require().NoError(err)
		admin, err := s.store.Get(s.ctx, ScopeAdmin)
		s.Require().NoError(err)

		s.Equal("user-tok", user)
		s.Equal("admin-tok", admin)
	})
}

func (s *MemoryStoreSuite) TestDelete() {
	s.Run("deleted token is gone", func() {
		s.Require().NoError(s.store.Save(s.ctx, ScopeUser, "tok-1"))
		s.Require().NoError(s.store.Delete(s.ctx, ScopeUser))

		_, err := s.store.Get(s.ctx, ScopeUser)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete of missing scope is a no-op", func() {
		s.NoError(s.store.Delete(s.ctx, ScopeAdmin))
	})
}
