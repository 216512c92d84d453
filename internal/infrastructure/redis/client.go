package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/config"
	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the startup connectivity check so the worker fails fast
// against an unreachable redis instead of hanging on its first BRPop.
const pingTimeout = 5 * time.Second

// Client owns the shared redis connection. The queue, status and session
// stores obtain the underlying go-redis client through GetRDB.
type Client interface {
	Ping(ctx context.Context) error
	Close() error
	GetRDB() *redis.Client
}

type redisClient struct {
	rdb *redis.Client
}

func NewClient(cfg config.RedisConfig) Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &redisClient{rdb: rdb}
}

func (c *redisClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable at %s: %w", c.rdb.Options().Addr, err)
	}
	return nil
}

func (c *redisClient) Close() error {
	return c.rdb.Close()
}

func (c *redisClient) GetRDB() *redis.Client {
	return c.rdb
}
