package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/session"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage saved session configurations",
}

var templateSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save a session configuration",
	Long: fmt.Sprintf("Save a session configuration under NAME. Only the newest %d templates are kept.",
		session.MaxTemplates),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		base, err := e.cfg.SessionConfig()
		if err != nil {
			return err
		}
		tpls := e.templates()
		cfg, err := practiceConfig(cmd.Context(), cmd, base, tpls, e.userID())
		if err != nil {
			return err
		}
		tpl, err := tpls.Save(cmd.Context(), e.userID(), args[0], cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved template %q (%s)\n", tpl.Name, tpl.ID)
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.templates().List(cmd.Context(), e.userID())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %-20s  %-16s  %5s  %s\n", "ID", "Name", "Mode", "Count", "Timer")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, t := range list {
			timer := string(t.Config.TimerType)
			if t.Config.Timed() {
				timer = fmt.Sprintf("%s %d", timer, t.Config.TimerValue)
			}
			fmt.Fprintf(out, "%-36s  %-20s  %-16s  %5d  %s\n",
				t.ID, clip(t.Name, 20), t.Config.Mode.Label(), t.Config.Count, timer)
		}
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a saved template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.templates().Delete(cmd.Context(), e.userID(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Template deleted.")
		return nil
	},
}

func init() {
	addSessionFlags(templateSaveCmd.Flags())
	templateCmd.AddCommand(templateSaveCmd, templateListCmd, templateDeleteCmd)
}
