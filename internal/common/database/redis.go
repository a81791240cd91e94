// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"

	"brand-content-engine/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the connection used by the matrix store.
type RedisClient struct {
	Client *redis.Client
	addr   string
}

// NewRedis builds a pooled client from config. It does not dial; call Ping.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdle,
		DialTimeout:  config.GetDuration(cfg.DialTimeout),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.ReadTimeout),
	})
	return &RedisClient{Client: rdb, addr: cfg.Address}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.addr, err)
	}
	return nil
}

// PoolStats reports connection pool usage for the ops endpoint.
func (c *RedisClient) PoolStats() map[string]interface{} {
	s := c.Client.PoolStats()
	return map[string]interface{}{
		"hits":        s.Hits,
		"misses":      s.Misses,
		"timeouts":    s.Timeouts,
		"total_conns": s.TotalConns,
		"idle_conns":  s.IdleConns,
	}
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
