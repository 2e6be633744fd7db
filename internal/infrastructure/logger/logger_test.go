package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigs(t *testing.T) {
	dev := DefaultConfig()
	assert.Equal(t, "info", dev.Level)
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "stdout", dev.Output)

	prod := ProductionConfig()
	assert.Equal(t, "json", prod.Format)
	assert.Equal(t, dev.TimeFormat, prod.TimeFormat)
}

func TestNew(t *testing.T) {
	t.Run("writes json with static fields to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "analytics.log")
		cfg := ProductionConfig()
		cfg.Output = path

		l, err := New(cfg, zap.String("service", "backoffice-analytics"))
		require.NoError(t, err)
		l.Info("Statistics pass published", zap.Uint64("generation", 2))
		require.NoError(t, l.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"service":"backoffice-analytics"`)
		assert.Contains(t, string(data), `"generation":2`)
		assert.Contains(t, string(data), `"level":"info"`)
	})

	t.Run("level filters entries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "warn.log")

		l, err := New(Config{Level: "warn", Format: "json", Output: path})
		require.NoError(t, err)
		l.Info("hidden")
		l.Warn("shown")
		require.NoError(t, l.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "hidden")
		assert.Contains(t, string(data), "shown")
	})

	t.Run("unwritable output fails", func(t *testing.T) {
		_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})

		assert.Error(t, err)
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		t.Run(env, func(t *testing.T) {
			l, err := NewForEnvironment(env, "debug")
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestCreateWriter(t *testing.T) {
	for _, output := range []string{"", "stdout", "STDERR"} {
		w, err := createWriter(output)
		require.NoError(t, err)
		assert.NotNil(t, w)
	}
}
