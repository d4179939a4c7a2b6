package db

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/appointly/scheduler/internal/config"
)

// NewRedis connects to Redis for the public rate limiter. A missing address
// or unreachable server returns nil; the limiter then lets requests through.
func NewRedis(cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, rate limiting disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return nil
	}

	return rdb
}
