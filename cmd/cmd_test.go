package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/practice"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/session"
)

type fakeFinder struct {
	tpl session.Template
}

func (f fakeFinder) Find(_ context.Context, _ string, ref string) (session.Template, error) {
	if ref == f.tpl.ID || ref == f.tpl.Name {
		return f.tpl, nil
	}
	return session.Template{}, practice.ErrTemplateNotFound
}

func sessionFlagsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addSessionFlags(c.Flags())
	c.Flags().String("template", "", "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

var baseConfig = session.Config{Count: 20, TimerType: session.TimerNone, ShuffleQuestions: true}

func TestPracticeConfig_Defaults(t *testing.T) {
	cfg, err := practiceConfig(context.Background(), sessionFlagsCmd(t), baseConfig, fakeFinder{}, "u")
	require.NoError(t, err)
	assert.Equal(t, selection.ModeSmart, cfg.Mode)
	assert.Equal(t, 20, cfg.Count)
	assert.True(t, cfg.ShuffleQuestions)
}

func TestPracticeConfig_Flags(t *testing.T) {
	c := sessionFlagsCmd(t, "--mode", "due", "--count", "5", "--subject", "s1", "--subject", "s2",
		"--timer", "per_question", "--timer-value", "30", "--shuffle-options")
	cfg, err := practiceConfig(context.Background(), c, baseConfig, fakeFinder{}, "u")
	require.NoError(t, err)

	assert.Equal(t, selection.ModeDue, cfg.Mode)
	assert.Equal(t, 5, cfg.Count)
	assert.Equal(t, []string{"s1", "s2"}, cfg.Scope.SubjectIDs)
	assert.Equal(t, session.TimerPerQuestion, cfg.TimerType)
	assert.Equal(t, 30, cfg.TimerValue)
	assert.True(t, cfg.ShuffleOptions)
}

func TestPracticeConfig_TemplateThenFlags(t *testing.T) {
	finder := fakeFinder{tpl: session.Template{ID: "t1", Name: "exam",
		Config: session.Config{Mode: selection.ModeWrong, Count: 40, TimerType: session.TimerFullSession, TimerValue: 15}}}

	cfg, err := practiceConfig(context.Background(), sessionFlagsCmd(t, "--template", "exam", "--count", "10"),
		baseConfig, finder, "u")
	require.NoError(t, err)
	assert.Equal(t, selection.ModeWrong, cfg.Mode)
	assert.Equal(t, 10, cfg.Count)
	assert.Equal(t, session.TimerFullSession, cfg.TimerType)
	assert.Equal(t, 15, cfg.TimerValue)
}

func TestPracticeConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad mode", []string{"--mode", "hard"}, "unknown mode"},
		{"bad count", []string{"--count", "0"}, "--count"},
		{"bad timer", []string{"--timer", "lap"}, "unknown timer"},
		{"timer without value", []string{"--timer", "per_question"}, "--timer-value"},
		{"missing template", []string{"--template", "nope"}, "template not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := practiceConfig(context.Background(), sessionFlagsCmd(t, tt.args...), baseConfig, fakeFinder{}, "u")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

const importJSON = `{
  "subjects": [{
    "name": "Chemistry",
    "chapters": [{
      "name": "Elements",
      "questions": [
        {"text": "Symbol for gold?", "options": ["Ag", "Au", "Gd", "Go"], "correct": "B"},
        {"text": "Atomic number of carbon?", "options": ["4", "8", "6", "12"], "correct": "C", "important": true}
      ]
    }]
  }]
}`

// run executes the root command with args against the test database.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", db}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("QUIZBANK_USER_ID", "tester")
	db := filepath.Join(dir, "data", "quizbank.db")

	file := filepath.Join(dir, "bank.json")
	require.NoError(t, os.WriteFile(file, []byte(importJSON), 0o644))

	out, err := run(t, db, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 questions across 1 subjects and 1 chapters")

	out, err = run(t, db, "subject", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Chemistry")
	assert.Contains(t, out, "1 subjects")

	out, err = run(t, db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Questions      2 (0 seen)")
	assert.Contains(t, out, "Chemistry")

	out, err = run(t, db, "wrong")
	require.NoError(t, err)
	assert.Contains(t, out, "0 questions")

	out, err = run(t, db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "0 sessions")

	out, err = run(t, db, "template", "save", "drill", "--mode", "random", "--count", "7")
	require.NoError(t, err)
	assert.Contains(t, out, `Saved template "drill"`)

	out, err = run(t, db, "template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "drill")
	assert.Contains(t, out, "Quick Mix")

	_, err = run(t, db, "flag", "no-such-question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been practiced yet")

	out, err = run(t, db, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 performance records")

	out, err = run(t, db, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "quizbank")
}

func TestReset_RequiresConfirmation(t *testing.T) {
	resetCmd.Flags().Set("yes", "false")
	_, err := run(t, filepath.Join(t.TempDir(), "q.db"), "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}
