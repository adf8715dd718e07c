package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		d, err := stats.Load(cmd.Context(), e.sources(), e.userID(), e.clock.Now(), e.statsOptions())
		if err != nil {
			return err
		}
		printDashboard(cmd, d)
		return nil
	},
}

func printDashboard(cmd *cobra.Command, d stats.Dashboard) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Questions      %d (%d seen)\n", d.TotalQuestions, d.Seen)
	fmt.Fprintf(out, "Accuracy       %.0f%% (%d/%d)\n", d.Accuracy()*100, d.TimesCorrect, d.TimesAsked)
	fmt.Fprintf(out, "Due today      %d\n", d.DueToday)
	fmt.Fprintf(out, "Stale          %d\n", d.Stale)
	fmt.Fprintf(out, "Flagged        %d\n", d.Flagged)
	fmt.Fprintf(out, "Near mastery   %d\n", d.NearMastery)
	fmt.Fprintf(out, "Today          %d/%d answered\n", d.AnsweredToday, d.DailyGoal)

	fmt.Fprintln(out, "\nMastery")
	for _, l := range mastery.Levels {
		fmt.Fprintf(out, "  %-11s  %d\n", l, d.Distribution[l])
	}

	if len(d.Subjects) > 0 {
		fmt.Fprintln(out, "\nSubjects")
		fmt.Fprintf(out, "  %-24s  %9s  %5s  %8s  %5s\n", "Name", "Questions", "Seen", "Mastered", "Acc")
		fmt.Fprintln(out, "  "+strings.Repeat("─", 60))
		for _, s := range d.Subjects {
			fmt.Fprintf(out, "  %-24s  %9d  %5d  %8d  %4.0f%%\n",
				clip(s.Name, 24), s.Questions, s.Seen, s.Mastered, s.Accuracy()*100)
		}
	}

	if len(d.RecentScores) > 0 {
		fmt.Fprintln(out, "\nRecent sessions")
		for _, s := range d.RecentScores {
			fmt.Fprintf(out, "  %s  %-16s  %3d%%  (%d/%d answered)\n",
				s.StartedAt.Local().Format("2006-01-02 15:04"), s.Mode.Label(), s.Score, s.Answered, s.Total)
		}
	}
}
