package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/quizbank/internal/config"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.Config
		level zapcore.Level
	}{
		{"development default", config.Config{Env: "local", LogLevel: "debug"}, zapcore.DebugLevel},
		{"production warn", config.Config{Env: "production", LogLevel: "warn"}, zapcore.WarnLevel},
		{"production default", config.Config{Env: "production"}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.level, logger.Level())
		})
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestNewFile_WritesToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := NewFile(&config.Config{Env: "production", LogLevel: "info"}, path)
	require.NoError(t, err)

	logger.Info("checkpoint dropped")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "checkpoint dropped")
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, "/tmp/x.log", FilePath(&config.Config{LogFile: "/tmp/x.log"}, "/data/q.db"))
	assert.Equal(t, filepath.Join("/data", "quizbank.log"), FilePath(&config.Config{}, "/data/q.db"))
}
