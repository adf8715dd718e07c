package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/quizbank/internal/session"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "QUIZBANK"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string  `mapstructure:"env"`       // local, production
	LogLevel string  `mapstructure:"log_level"` // debug, info, warn, error
	LogFile  string  `mapstructure:"log_file"`  // TUI log destination; empty means next to the DB
	DBPath   string  `mapstructure:"db_path"`   // overrides the default data path
	UserID   string  `mapstructure:"user_id"`   // owner of the performance ledger
	Session  Session `mapstructure:"session"`   // defaults for new sessions
	Review   Review  `mapstructure:"review"`    // scheduling and bookkeeping
}

// Session holds the defaults applied to new practice sessions.
type Session struct {
	DefaultCount     int    `mapstructure:"default_count"`
	TimerType        string `mapstructure:"timer_type"`
	TimerValue       int    `mapstructure:"timer_value"`
	ShuffleQuestions bool   `mapstructure:"shuffle_questions"`
	ShuffleOptions   bool   `mapstructure:"shuffle_options"`
}

// Review tunes review bookkeeping.
type Review struct {
	StaleDays       int           `mapstructure:"stale_days"`
	DailyGoal       int           `mapstructure:"daily_goal"`
	CheckpointEvery int           `mapstructure:"checkpoint_every"`
	ResumeWindow    time.Duration `mapstructure:"resume_window"`
}

// SessionConfig turns the session defaults into a session.Config.
func (c *Config) SessionConfig() (session.Config, error) {
	timer, err := session.ParseTimerType(c.Session.TimerType)
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Count:            c.Session.DefaultCount,
		TimerType:        timer,
		TimerValue:       c.Session.TimerValue,
		ShuffleQuestions: c.Session.ShuffleQuestions,
		ShuffleOptions:   c.Session.ShuffleOptions,
	}, nil
}

// Production reports whether the app runs in production mode.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from an optional config file, a .env file and
// QUIZBANK_* environment variables, in increasing priority. An empty path
// searches the working directory and $XDG_CONFIG_HOME/quizbank.
func Load(path string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("db_path", "")
	v.SetDefault("user_id", "local")

	v.SetDefault("session.default_count", 20)
	v.SetDefault("session.timer_type", string(session.TimerNone))
	v.SetDefault("session.timer_value", 0)
	v.SetDefault("session.shuffle_questions", true)
	v.SetDefault("session.shuffle_options", false)

	v.SetDefault("review.stale_days", 30)
	v.SetDefault("review.daily_goal", 50)
	v.SetDefault("review.checkpoint_every", 10)
	v.SetDefault("review.resume_window", "24h")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("config: user_id must not be empty")
	}
	if c.Session.DefaultCount <= 0 {
		return fmt.Errorf("config: session.default_count must be positive, got %d", c.Session.DefaultCount)
	}
	if _, err := session.ParseTimerType(c.Session.TimerType); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Session.TimerValue < 0 {
		return fmt.Errorf("config: session.timer_value must not be negative, got %d", c.Session.TimerValue)
	}
	return nil
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "quizbank")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quizbank")
}
