package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/storefront/internal/config"
)

// NewRedis creates the Redis client used for request rate limiting. It
// parses the URL and waits for the server to answer a ping.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ping := func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	if err := waitReady(ctx, "redis", ping); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
