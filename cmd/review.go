package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/selection"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List questions due for review today",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listReview(cmd, func(e *env, pool []bank.Question, perf ledger.PerformanceMap) []bank.Question {
			return selection.DueToday(pool, perf, e.clock.Now())
		})
	},
}

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List questions not asked for a while",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listReview(cmd, func(e *env, pool []bank.Question, perf ledger.PerformanceMap) []bank.Question {
			days := e.cfg.Review.StaleDays
			if cmd.Flags().Changed("days") {
				days, _ = cmd.Flags().GetInt("days")
			}
			return selection.Stale(pool, perf, e.clock.Now(), days)
		})
	},
}

var wrongCmd = &cobra.Command{
	Use:   "wrong",
	Short: "List questions answered wrong at least once, weakest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listReview(cmd, func(_ *env, pool []bank.Question, perf ledger.PerformanceMap) []bank.Question {
			return selection.Wrong(pool, perf)
		})
	},
}

func init() {
	staleCmd.Flags().Int("days", 0, "Days without being asked (default from config)")
}

type reviewFilter func(e *env, pool []bank.Question, perf ledger.PerformanceMap) []bank.Question

// listReview prints the questions filter picks, with their ledger figures.
func listReview(cmd *cobra.Command, filter reviewFilter) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	pool, perf, err := loadPoolAndPerformance(cmd.Context(), e)
	if err != nil {
		return err
	}
	qs := filter(e, pool, perf)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-36s  %-11s  %5s  %-10s  %-10s  %s\n", "ID", "Mastery", "Acc", "Last", "Due", "Question")
	fmt.Fprintln(out, strings.Repeat("─", 120))
	for _, q := range qs {
		rec := perf[q.ID]
		fmt.Fprintf(out, "%-36s  %-11s  %4.0f%%  %-10s  %-10s  %s\n",
			q.ID, perf.Level(q.ID), rec.Accuracy()*100,
			dateOrDash(rec.LastAsked.IsZero(), rec.LastAsked.Local().Format("2006-01-02")),
			dateOrDash(rec.NextDue.IsZero(), rec.NextDue.Local().Format("2006-01-02")),
			clip(q.Text, 50))
	}
	fmt.Fprintf(out, "\n%d questions\n", len(qs))
	return nil
}

func dateOrDash(zero bool, s string) string {
	if zero {
		return "-"
	}
	return s
}

// loadPoolAndPerformance reads the whole bank and the user's ledger
// concurrently.
func loadPoolAndPerformance(ctx context.Context, e *env) ([]bank.Question, ledger.PerformanceMap, error) {
	var (
		pool []bank.Question
		perf ledger.PerformanceMap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pool, err = e.store.Bank().LoadQuestionPool(gctx, bank.Scope{})
		return err
	})
	g.Go(func() error {
		var err error
		perf, err = e.store.Performance().LoadPerformanceMap(gctx, e.userID())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return pool, perf, nil
}
