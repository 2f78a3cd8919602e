package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/loga115/ticketflow/internal/config"
)

const redisDialTimeout = 2 * time.Second

// Redis wraps the go-redis client the event dispatcher publishes domain
// events through. A broken connection degrades to in-process events only,
// so startup proceeds even when the ping fails.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects using the provided configuration and probes the
// connection once so a misconfigured address is visible at startup.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis; events stay in-process only",
			zap.String("addr", cfg.Addr),
			zap.Error(err))
	} else {
		logger.Info("connected to redis",
			zap.String("addr", cfg.Addr),
			zap.String("event_channel", cfg.EventChannel))
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
