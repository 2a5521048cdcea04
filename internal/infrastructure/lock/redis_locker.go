package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLockTimeout is returned when a key could not be acquired in time
var ErrLockTimeout = errors.New("lock: timed out waiting for key")

// releaseScript deletes a key only if it still holds the caller's token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLockerConfig configures a RedisLocker
type RedisLockerConfig struct {
	KeyPrefix     string
	TTL           time.Duration
	RetryInterval time.Duration
	WaitTimeout   time.Duration
}

// DefaultRedisLockerConfig returns default settings
func DefaultRedisLockerConfig() RedisLockerConfig {
	return RedisLockerConfig{
		KeyPrefix:     "occupancy:lock:",
		TTL:           30 * time.Second,
		RetryInterval: 25 * time.Millisecond,
		WaitTimeout:   10 * time.Second,
	}
}

// RedisLocker is a multi-instance locker backed by Redis SET NX PX.
// Each Lock call uses a fresh owner token so a release never frees a key
// that expired and was taken by someone else.
type RedisLocker struct {
	client redis.UniversalClient
	config RedisLockerConfig
	logger *zap.Logger
}

// NewRedisLocker creates a RedisLocker over an existing client
func NewRedisLocker(client redis.UniversalClient, cfg RedisLockerConfig, logger *zap.Logger) *RedisLocker {
	defaults := DefaultRedisLockerConfig()
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaults.KeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaults.RetryInterval
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = defaults.WaitTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{client: client, config: cfg, logger: logger}
}

// Lock acquires all keys in ascending order
func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	ordered := orderKeys(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(ordered))

	waitCtx, cancel := context.WithTimeout(ctx, l.config.WaitTimeout)
	defer cancel()

	for _, key := range ordered {
		if err := l.acquire(waitCtx, l.config.KeyPrefix+key, token); err != nil {
			l.release(held, token)
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
			}
			return nil, err
		}
		held = append(held, l.config.KeyPrefix+key)
	}

	return func() { l.release(held, token) }, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.config.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.config.TTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// release frees held keys in reverse order. It uses a fresh context so that
// keys are released even when the caller's context is already done.
func (l *RedisLocker) release(keys []string, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.client, []string{keys[i]}, token).Err(); err != nil {
			l.logger.Warn("Failed to release lock",
				zap.String("key", keys[i]),
				zap.Error(err),
			)
		}
	}
}
