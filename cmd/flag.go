package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/store"
)

var flagCmd = &cobra.Command{
	Use:   "flag QUESTION_ID",
	Short: "Toggle the review bookmark on a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		flagged, err := e.store.Performance().ToggleFlag(cmd.Context(), e.userID(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("question %s has not been practiced yet; flag it during a session", args[0])
		}
		if err != nil {
			return err
		}
		if flagged {
			fmt.Fprintln(cmd.OutOrStdout(), "Flagged.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Flag removed.")
		}
		return nil
	},
}
