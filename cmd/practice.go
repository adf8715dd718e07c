package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/practice"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/session"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start a practice session",
	Long: "Start a practice session in the terminal UI. Flags override the configured\n" +
		"defaults; --template starts from a saved configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		base, err := e.cfg.SessionConfig()
		if err != nil {
			return err
		}
		cfg, err := practiceConfig(cmd.Context(), cmd, base, e.templates(), e.userID())
		if err != nil {
			return err
		}

		var builder *selection.Builder
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			builder = selection.NewSeeded(seed, e.clock)
		}
		return runApp(e, &cfg, builder)
	},
}

func init() {
	addSessionFlags(practiceCmd.Flags())
	practiceCmd.Flags().String("template", "", "Start from a saved template (ID or name)")
	practiceCmd.Flags().Int64("seed", 0, "Random seed for a reproducible selection")
}

// addSessionFlags declares the flags that shape a session configuration.
func addSessionFlags(f *pflag.FlagSet) {
	f.String("mode", string(selection.ModeSmart), "Selection mode: smart, wrong, due, unseen, flagged, random")
	f.StringSlice("subject", nil, "Limit to subject IDs (repeatable)")
	f.StringSlice("chapter", nil, "Limit to chapter IDs (repeatable)")
	f.Int("count", 0, "Number of questions (default from config)")
	f.String("timer", "", "Timer: none, per_question, full_session")
	f.Int("timer-value", 0, "Seconds per question or minutes per session")
	f.Bool("shuffle-options", false, "Shuffle option order per question")
}

// templateFinder is the part of practice.Templates the command reads.
type templateFinder interface {
	Find(ctx context.Context, userID, ref string) (session.Template, error)
}

var _ templateFinder = (*practice.Templates)(nil)

// practiceConfig layers the template (if any) and then explicit flags over
// the configured defaults.
func practiceConfig(ctx context.Context, cmd *cobra.Command, base session.Config, tpls templateFinder, userID string) (session.Config, error) {
	cfg := base
	cfg.Mode = selection.ModeSmart

	f := cmd.Flags()
	if ref, _ := f.GetString("template"); ref != "" {
		tpl, err := tpls.Find(ctx, userID, ref)
		if err != nil {
			return session.Config{}, err
		}
		cfg = tpl.Config
	}

	if f.Changed("mode") || cfg.Mode == "" {
		name, _ := f.GetString("mode")
		mode, err := selection.ParseMode(name)
		if err != nil {
			return session.Config{}, err
		}
		cfg.Mode = mode
	}
	if f.Changed("subject") || f.Changed("chapter") {
		subjects, _ := f.GetStringSlice("subject")
		chapters, _ := f.GetStringSlice("chapter")
		cfg.Scope = bank.Scope{SubjectIDs: subjects, ChapterIDs: chapters}
	}
	if f.Changed("count") {
		n, _ := f.GetInt("count")
		if n <= 0 {
			return session.Config{}, fmt.Errorf("--count must be positive")
		}
		cfg.Count = n
	}
	if f.Changed("timer") {
		name, _ := f.GetString("timer")
		timer, err := session.ParseTimerType(name)
		if err != nil {
			return session.Config{}, err
		}
		cfg.TimerType = timer
	}
	if f.Changed("timer-value") {
		cfg.TimerValue, _ = f.GetInt("timer-value")
	}
	if f.Changed("shuffle-options") {
		cfg.ShuffleOptions, _ = f.GetBool("shuffle-options")
	}
	if cfg.TimerType != session.TimerNone && cfg.TimerValue <= 0 {
		return session.Config{}, fmt.Errorf("timer %s needs a positive --timer-value", cfg.TimerType)
	}
	return cfg, nil
}
