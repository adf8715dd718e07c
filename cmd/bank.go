package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/bank"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage subjects",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		color, _ := cmd.Flags().GetString("color")
		icon, _ := cmd.Flags().GetString("icon")
		s, err := e.store.Bank().CreateSubject(cmd.Context(), args[0], color, icon)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created subject %s (%s)\n", s.Name, s.ID)
		return nil
	},
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		subjects, err := e.store.Bank().ListSubjects(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %s\n", "ID", "Name")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, s := range subjects {
			fmt.Fprintf(out, "%-36s  %s\n", s.ID, s.Name)
		}
		fmt.Fprintf(out, "\n%d subjects\n", len(subjects))
		return nil
	},
}

var subjectDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a subject with its chapters and questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.Bank().DeleteSubject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Subject deleted.")
		return nil
	},
}

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Manage chapters",
}

var chapterAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a chapter in a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		subjectID, _ := cmd.Flags().GetString("subject")
		c, err := e.store.Bank().CreateChapter(cmd.Context(), subjectID, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created chapter %s (%s)\n", c.Name, c.ID)
		return nil
	},
}

var chapterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chapters of a subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		subjectID, _ := cmd.Flags().GetString("subject")
		chapters, err := e.store.Bank().ListChapters(cmd.Context(), subjectID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %s\n", "ID", "Name")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, c := range chapters {
			fmt.Fprintf(out, "%-36s  %s\n", c.ID, c.Name)
		}
		fmt.Fprintf(out, "\n%d chapters\n", len(chapters))
		return nil
	},
}

var chapterDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a chapter with its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.Bank().DeleteChapter(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Chapter deleted.")
		return nil
	},
}

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Manage questions",
}

var questionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question to a chapter",
	Example: `  quizbank question add --chapter CH --text "2+2?" \
    --option 3 --option 4 --option 5 --option 22 --correct B`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		chapterID, _ := f.GetString("chapter")
		text, _ := f.GetString("text")
		options, _ := f.GetStringArray("option")
		correct, _ := f.GetString("correct")
		explanation, _ := f.GetString("explanation")
		important, _ := f.GetBool("important")

		q := bank.ImportQuestion{
			Text:        text,
			Options:     options,
			Correct:     correct,
			Explanation: explanation,
			Important:   important,
		}.Question()

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		added, err := e.store.Bank().AddQuestions(cmd.Context(), chapterID, []bank.Question{q})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added question %s\n", added[0].ID)
		return nil
	},
}

var questionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions of a chapter",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		chapterID, _ := cmd.Flags().GetString("chapter")
		qs, err := e.store.Bank().ListQuestions(cmd.Context(), chapterID)
		if err != nil {
			return err
		}
		printQuestions(cmd, qs)
		return nil
	},
}

var questionDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.Bank().DeleteQuestion(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Question deleted.")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import subjects, chapters and questions from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fh.Close()

		f, err := bank.ParseImport(fh)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.store.Bank().Import(cmd.Context(), f)
		if err != nil {
			return err
		}
		subjects, chapters, _ := f.Counts()
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions across %d subjects and %d chapters\n", n, subjects, chapters)
		return nil
	},
}

// printQuestions prints one line per question.
func printQuestions(cmd *cobra.Command, qs []bank.Question) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-36s  %-20s  %-20s  %s\n", "ID", "Subject", "Chapter", "Question")
	fmt.Fprintln(out, strings.Repeat("─", 120))
	for _, q := range qs {
		mark := " "
		if q.Important {
			mark = "*"
		}
		fmt.Fprintf(out, "%-36s  %-20s  %-20s %s%s\n",
			q.ID, clip(q.SubjectName, 20), clip(q.ChapterName, 20), mark, clip(q.Text, 50))
	}
	fmt.Fprintf(out, "\n%d questions\n", len(qs))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	subjectAddCmd.Flags().String("color", "", "Display color")
	subjectAddCmd.Flags().String("icon", "", "Display icon")
	subjectCmd.AddCommand(subjectAddCmd, subjectListCmd, subjectDeleteCmd)

	chapterAddCmd.Flags().String("subject", "", "Subject ID")
	_ = chapterAddCmd.MarkFlagRequired("subject")
	chapterListCmd.Flags().String("subject", "", "Subject ID")
	_ = chapterListCmd.MarkFlagRequired("subject")
	chapterCmd.AddCommand(chapterAddCmd, chapterListCmd, chapterDeleteCmd)

	qf := questionAddCmd.Flags()
	qf.String("chapter", "", "Chapter ID")
	qf.String("text", "", "Question text")
	qf.StringArray("option", nil, "Option text, in A-D order (exactly four)")
	qf.String("correct", "", "Correct option label (A-D)")
	qf.String("explanation", "", "Explanation shown after answering")
	qf.Bool("important", false, "Mark as important")
	for _, name := range []string{"chapter", "text", "option", "correct"} {
		_ = questionAddCmd.MarkFlagRequired(name)
	}
	questionListCmd.Flags().String("chapter", "", "Chapter ID")
	_ = questionListCmd.MarkFlagRequired("chapter")
	questionCmd.AddCommand(questionAddCmd, questionListCmd, questionDeleteCmd)
}
