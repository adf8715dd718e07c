package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("limit")
		if n <= 0 {
			return fmt.Errorf("--limit must be positive")
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		sessions, err := e.store.Sessions().RecentSessions(cmd.Context(), e.userID(), n)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %-16s  %-16s  %-11s  %8s  %5s\n", "ID", "Started", "Mode", "Status", "Answered", "Score")
		fmt.Fprintln(out, strings.Repeat("─", 104))
		for _, s := range sessions {
			fmt.Fprintf(out, "%-36s  %-16s  %-16s  %-11s  %4d/%-3d  %4d%%\n",
				s.ID, s.StartedAt.Local().Format("2006-01-02 15:04"), s.Config.Mode.Label(), s.Status,
				s.Totals.Answered, s.Totals.Total, s.Score)
		}
		fmt.Fprintf(out, "\n%d sessions\n", len(sessions))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
