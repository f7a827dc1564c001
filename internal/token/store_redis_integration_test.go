//go:build integration

package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"aura/internal/token"
	"aura/pkg/platform/sentinel"
	"aura/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *token.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = token.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	s.Require().NoError(s.store.Save(ctx, token.ScopeUser, "tok-redis"))

	got, err := s.store.Get(ctx, token.ScopeUser)
	s.Require().NoError(err)
	s.Equal("tok-redis", got)

	s.Require().NoError(s.store.Delete(ctx, token.ScopeUser))
	_, err = s.store.Get(ctx, token.ScopeUser)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestTokenHasNoExpiry() {
	ctx := context.Background()

	s.Require().NoError(s.store.Save(ctx, token.ScopeUser, "tok-redis"))

	ttl, err := s.redis.Client.TTL(ctx, "token:"+token.ScopeUser).Result()
	s.Require().NoError(err)
	s.Negative(ttl, "token keys are stored without TTL")
}

func (s *RedisStoreSuite) TestScopeIsolation() {
	ctx := context.Background()

	s.Require().NoError(s.store.Save(ctx, token.ScopeUser, "user-tok"))
	s.Require().NoError(s.store.Save(ctx, token.ScopeAdmin, "admin-tok"))

	admin, err := s.store.Get(ctx, token.ScopeAdmin)
	s.Require().NoError(err)
	s.Equal("admin-tok", admin)
}
