package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizbank",
	Short: "Spaced-repetition practice for multiple-choice question banks",
	Long: "Quizbank runs practice sessions over your own question bank, tracks per-question\n" +
		"performance and schedules reviews with SM-2.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		return runApp(e, nil, nil)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZBANK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./config.yaml or $XDG_CONFIG_HOME/quizbank/config.yaml)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(subjectCmd)
	rootCmd.AddCommand(chapterCmd)
	rootCmd.AddCommand(questionCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(staleCmd)
	rootCmd.AddCommand(wrongCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(flagCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db_path from config, then QUIZBANK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
