package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"aura/pkg/platform/sentinel"
)

const redisKeyPrefix = "token:"

// Redis is the Store for multi-instance deployments. Tokens are written
// without TTL; they live until the callback flow replaces them or a logout
// deletes them.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Save(ctx context.Context, scope, token string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+scope, token, 0).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *Redis) Get(ctx context.Context, scope string) (string, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+scope).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return val, nil
}

func (s *Redis) Delete(ctx context.Context, scope string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+scope).Err(); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
