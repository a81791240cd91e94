// internal/content/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brand-content-engine/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "content:matrix:"

// RedisStore keeps each matrix as a JSON string under content:matrix:<brandId>.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a store that expires entries after ttl; zero keeps
// them until overwritten.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(brandID string) string {
	return redisKeyPrefix + brandID
}

func (s *RedisStore) Get(ctx context.Context, brandID string) (*models.ContentMatrix, error) {
	data, err := s.client.Get(ctx, redisKey(brandID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMatrixNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", brandID, err)
	}

	var m models.ContentMatrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode stored matrix %s: %w", brandID, err)
	}
	return &m, nil
}

func (s *RedisStore) Put(ctx context.Context, brandID string, m *models.ContentMatrix) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode matrix %s: %w", brandID, err)
	}
	if err := s.client.Set(ctx, redisKey(brandID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", brandID, err)
	}
	return nil
}
