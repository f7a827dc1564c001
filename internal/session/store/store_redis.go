package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aura/internal/session/models"
	"aura/pkg/platform/sentinel"
)

const redisKeyPrefix = "session:"

// Redis is the SnapshotStore for multi-instance deployments. Entries carry
// a retention TTL so abandoned session keys age out of Redis; freshness
// within that window is still the service's call.
type Redis struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedis builds a Redis snapshot store. A zero retention keeps entries
// until they are overwritten or deleted.
func NewRedis(client *redis.Client, retention time.Duration) *Redis {
	return &Redis{client: client, retention: retention}
}

func (s *Redis) Get(ctx context.Context, key string) (*models.Snapshot, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Redis) Put(ctx context.Context, key string, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.retention).Err(); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
