package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Locker acquires a set of keys and returns a release function
type Locker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

// Factory creates lockers based on configuration
type Factory struct {
	lockConfig  config.LockConfig
	redisConfig config.RedisConfig
	logger      *zap.Logger
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a new locker factory
func NewFactory(lockCfg config.LockConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		lockConfig:  lockCfg,
		redisConfig: redisCfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// CreateLocker creates the configured locker. The returned close function
// releases the Redis connection, if any.
func (f *Factory) CreateLocker() (Locker, func() error, error) {
	noop := func() error { return nil }

	if f.lockConfig.Backend != "redis" {
		f.logger.Info("Using in-memory occupancy locker")
		return NewMemoryLocker(), noop, nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		if !f.lockConfig.AllowFallback {
			return nil, nil, fmt.Errorf("redis locker required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory locker. "+
			"Occupancy changes are only serialized within this instance.",
			zap.Error(err),
		)
		return NewMemoryLocker(), noop, nil
	}

	f.logger.Info("Using Redis occupancy locker", zap.String("addr", f.redisConfig.Addr()))
	locker := NewRedisLocker(client, RedisLockerConfig{
		KeyPrefix:     f.lockConfig.KeyPrefix,
		TTL:           f.lockConfig.TTL,
		RetryInterval: f.lockConfig.RetryInterval,
		WaitTimeout:   f.lockConfig.WaitTimeout,
	}, f.logger)
	return locker, client.Close, nil
}
