package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestFromAppConfig(t *testing.T) {
	log := config.LogConfig{Level: "debug", Format: "console", Output: "stderr"}

	t.Run("development keeps the configured format", func(t *testing.T) {
		cfg := FromAppConfig(log, "development")
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
	})

	t.Run("production forces json", func(t *testing.T) {
		cfg := FromAppConfig(log, "production")
		assert.Equal(t, "json", cfg.Format)
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"console stdout", &Config{Level: "debug", Format: "console", Output: "stdout"}},
		{"json stderr", &Config{Level: "warn", Format: "json", Output: "stderr"}},
		{"empty output defaults to stdout", &Config{Level: "info", Format: "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("room created", zap.String("room_id", "r1"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.Contains(line, `"msg":"room created"`), line)
	assert.True(t, strings.Contains(line, `"room_id":"r1"`), line)
	assert.True(t, strings.Contains(line, `"level":"info"`), line)
}

func TestNew_UnwritableFile(t *testing.T) {
	_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseLevel(input), input)
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(&Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}
