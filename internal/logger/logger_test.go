package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Alexander-D-Karpov/tracklist/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewWritesRotatedFile(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.File = filepath.Join(t.TempDir(), "test.log")
	cfg.Log.MaxSizeMB = 1

	log, level := New(cfg)
	assert.Equal(t, zapcore.InfoLevel, level.Level())

	log.Named("tracklist").Info("row added")
	_ = log.Sync()

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"logger":"tracklist"`)
	assert.Contains(t, string(data), "row added")
}

func TestDebugOverridesLevel(t *testing.T) {
	cfg := &config.Config{Debug: true}
	cfg.Log.Level = "error"

	_, level := New(cfg)
	assert.Equal(t, zapcore.DebugLevel, level.Level())
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
