package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizbank/internal/clock"
	"github.com/abhisek/quizbank/internal/config"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/logging"
	"github.com/abhisek/quizbank/internal/practice"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/stats"
	"github.com/abhisek/quizbank/internal/store"
)

// env is what every command runs against.
type env struct {
	cfg    *config.Config
	dbPath string
	store  *store.Store
	logger *zap.Logger
	clock  clock.Clock
}

// openEnv loads configuration, builds the logger and opens the store.
// Interactive runs log to a file so the terminal frame stays intact.
func openEnv(cmd *cobra.Command, interactive bool) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	var logger *zap.Logger
	if interactive {
		logger, err = logging.NewFile(cfg, logging.FilePath(cfg, dbPath))
	} else {
		logger, err = logging.New(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))

	return &env{cfg: cfg, dbPath: dbPath, store: st, logger: logger, clock: clock.Real()}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close store", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func (e *env) userID() string {
	return e.cfg.UserID
}

// service wires the practice service; a nil builder picks a time seed.
func (e *env) service(builder *selection.Builder) *practice.Service {
	led := ledger.New(e.store.Performance(), e.clock, e.logger)
	return practice.NewService(e.store.Bank(), e.store.Performance(), e.store.Sessions(), led,
		builder, e.clock, e.logger, practice.Options{
			DefaultCount:    e.cfg.Session.DefaultCount,
			ResumeWindow:    e.cfg.Review.ResumeWindow,
			CheckpointEvery: e.cfg.Review.CheckpointEvery,
		})
}

func (e *env) templates() *practice.Templates {
	return practice.NewTemplates(e.store.Templates(), e.clock)
}

func (e *env) sources() stats.Sources {
	return stats.Sources{
		Bank:        e.store.Bank(),
		Performance: e.store.Performance(),
		Sessions:    e.store.Sessions(),
	}
}

func (e *env) statsOptions() stats.Options {
	return stats.Options{StaleDays: e.cfg.Review.StaleDays, DailyGoal: e.cfg.Review.DailyGoal}
}
