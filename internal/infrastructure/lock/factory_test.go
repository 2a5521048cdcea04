package lock

import (
	"testing"

	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFactory_CreateLocker(t *testing.T) {
	// Nothing listens on port 1, so redis connections fail fast.
	unreachable := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	t.Run("memory backend", func(t *testing.T) {
		f := NewFactory(config.LockConfig{Backend: "memory"}, unreachable, WithLogger(zap.NewNop()))

		locker, closeFn, err := f.CreateLocker()
		require.NoError(t, err)
		assert.IsType(t, &MemoryLocker{}, locker)
		assert.NoError(t, closeFn())
	})

	t.Run("redis backend falls back to memory when allowed", func(t *testing.T) {
		f := NewFactory(config.LockConfig{Backend: "redis", AllowFallback: true}, unreachable)

		locker, closeFn, err := f.CreateLocker()
		require.NoError(t, err)
		assert.IsType(t, &MemoryLocker{}, locker)
		assert.NoError(t, closeFn())
	})

	t.Run("redis backend fails without fallback", func(t *testing.T) {
		f := NewFactory(config.LockConfig{Backend: "redis"}, unreachable)

		_, _, err := f.CreateLocker()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis locker required")
	})
}
