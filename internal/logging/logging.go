package logging

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/abhisek/quizbank/internal/config"
)

// New builds the process logger. Production mode logs JSON at info and
// above; everything else uses the development console encoder.
func New(cfg *config.Config) (*zap.Logger, error) {
	return build(cfg, nil)
}

// NewFile builds a logger that writes to path instead of stderr, for runs
// that own the terminal.
func NewFile(cfg *config.Config, path string) (*zap.Logger, error) {
	return build(cfg, []string{path})
}

// FilePath resolves where a TUI run logs: the configured log_file, or
// quizbank.log next to the database.
func FilePath(cfg *config.Config, dbPath string) string {
	if cfg.LogFile != "" {
		return cfg.LogFile
	}
	return filepath.Join(filepath.Dir(dbPath), "quizbank.log")
}

func build(cfg *config.Config, outputs []string) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Production() {
		zc = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = lvl
	}
	if len(outputs) > 0 {
		zc.OutputPaths = outputs
		zc.ErrorOutputPaths = outputs
	}
	return zc.Build()
}
