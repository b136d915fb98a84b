package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// OpenRedis connects to REDIS_URL and checks the connection.
func OpenRedis(ctx context.Context, cfg AppConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisClient(lc fx.Lifecycle, cfg AppConfig, log *zap.Logger) (*redis.Client, error) {
	client, err := OpenRedis(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to Redis")

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info("Closing Redis connection ...")
			return client.Close()
		},
	})
	return client, nil
}
