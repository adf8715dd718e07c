package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/clock"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/spacedrep"
)

const testUser = "u1"

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeQuestion(text, correct string, important bool) bank.Question {
	return bank.Question{
		Text: text,
		Options: []bank.Option{
			{Label: "A", Text: "one"},
			{Label: "B", Text: "two"},
			{Label: "C", Text: "three"},
			{Label: "D", Text: "four"},
		},
		CorrectOption: correct,
		Explanation:   "because",
		Important:     important,
	}
}

// seedBank creates two subjects with one chapter each and returns the
// stored questions per chapter.
func seedBank(t *testing.T, s *Store) (bank.Chapter, []bank.Question, bank.Chapter, []bank.Question) {
	t.Helper()
	ctx := context.Background()
	repo := s.Bank()

	math, err := repo.CreateSubject(ctx, "Math", "#ff0000", "M")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	bio, err := repo.CreateSubject(ctx, "Biology", "", "")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	algebra, err := repo.CreateChapter(ctx, math.ID, "Algebra")
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	cells, err := repo.CreateChapter(ctx, bio.ID, "Cells")
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	aq, err := repo.AddQuestions(ctx, algebra.ID, []bank.Question{
		makeQuestion("2+2?", "D", true),
		makeQuestion("3*3?", "A", false),
	})
	if err != nil {
		t.Fatalf("add questions: %v", err)
	}
	cq, err := repo.AddQuestions(ctx, cells.ID, []bank.Question{
		makeQuestion("Powerhouse?", "B", false),
	})
	if err != nil {
		t.Fatalf("add questions: %v", err)
	}
	return algebra, aq, cells, cq
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked with a file-based DB below.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileStoreUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quizbank.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	want := filepath.Join(t.TempDir(), "x", "bank.db")
	t.Setenv("QUIZBANK_DB", want)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUIZBANK_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "quizbank", "quizbank.db"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestBank_CRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Bank()
	algebra, aq, _, _ := seedBank(t, s)

	subjects, err := repo.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("subjects = %d, want 2", len(subjects))
	}

	got, err := repo.ListQuestions(ctx, algebra.ID)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("questions = %d, want 2", len(got))
	}
	q := got[0]
	if q.ID != aq[0].ID || q.Text != "2+2?" || q.CorrectOption != "D" || !q.Important {
		t.Errorf("question = %+v", q)
	}
	if len(q.Options) != 4 || q.OptionText("C") != "three" {
		t.Errorf("options = %+v", q.Options)
	}
	if q.SubjectName != "Math" || q.ChapterName != "Algebra" {
		t.Errorf("names = %q/%q", q.SubjectName, q.ChapterName)
	}

	if err := repo.DeleteQuestion(ctx, aq[1].ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if err := repo.DeleteQuestion(ctx, aq[1].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := repo.CreateChapter(ctx, "missing", "X"); !errors.Is(err, ErrNotFound) {
		t.Errorf("chapter under missing subject err = %v, want ErrNotFound", err)
	}
}

func TestBank_AddQuestionsRejectsMalformed(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	algebra, _, _, _ := seedBank(t, s)

	bad := makeQuestion("broken", "E", false)
	_, err := s.Bank().AddQuestions(ctx, algebra.ID, []bank.Question{makeQuestion("ok", "A", false), bad})
	if err == nil {
		t.Fatal("expected error for bad correct option")
	}
	got, _ := s.Bank().ListQuestions(ctx, algebra.ID)
	if len(got) != 2 {
		t.Errorf("questions = %d, want 2 (batch must not be partially stored)", len(got))
	}
}

func TestBank_DeleteSubjectCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	algebra, _, cells, _ := seedBank(t, s)

	if err := s.Bank().DeleteSubject(ctx, algebra.SubjectID); err != nil {
		t.Fatalf("delete subject: %v", err)
	}
	chapters, err := s.Bank().ListChapters(ctx, "")
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if len(chapters) != 1 || chapters[0].ID != cells.ID {
		t.Errorf("chapters = %+v, want only Cells", chapters)
	}
	pool, _ := s.Bank().LoadQuestionPool(ctx, bank.Scope{})
	if len(pool) != 1 {
		t.Errorf("pool = %d, want 1", len(pool))
	}
}

func TestBank_LoadQuestionPoolScope(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	algebra, aq, cells, cq := seedBank(t, s)

	tests := []struct {
		name  string
		scope bank.Scope
		want  int
	}{
		{"all", bank.Scope{}, 3},
		{"one subject", bank.Scope{SubjectIDs: []string{algebra.SubjectID}}, 2},
		{"one chapter", bank.Scope{ChapterIDs: []string{cells.ID}}, 1},
		{"both subjects", bank.Scope{SubjectIDs: []string{algebra.SubjectID, cells.SubjectID}}, 3},
		{"chapter outside subject", bank.Scope{SubjectIDs: []string{algebra.SubjectID}, ChapterIDs: []string{cells.ID}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := s.Bank().LoadQuestionPool(ctx, tt.scope)
			if err != nil {
				t.Fatalf("load pool: %v", err)
			}
			if len(pool) != tt.want {
				t.Errorf("pool = %d, want %d", len(pool), tt.want)
			}
		})
	}

	byID, err := s.Bank().QuestionsByID(ctx, []string{cq[0].ID, aq[0].ID, "gone"})
	if err != nil {
		t.Fatalf("questions by id: %v", err)
	}
	if len(byID) != 2 {
		t.Errorf("by id = %d, want 2", len(byID))
	}
}

func TestBank_Import(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedBank(t, s)

	f := &bank.ImportFile{Subjects: []bank.ImportSubject{
		{Name: "Math", Chapters: []bank.ImportChapter{
			{Name: "Algebra", Questions: []bank.ImportQuestion{
				{Text: "1+1?", Options: []string{"1", "2", "3", "4"}, Correct: "B"},
			}},
			{Name: "Geometry", Questions: []bank.ImportQuestion{
				{Text: "Triangle sides?", Options: []string{"2", "3", "4", "5"}, Correct: "B", Important: true},
			}},
		}},
		{Name: "History", Chapters: []bank.ImportChapter{
			{Name: "Rome", Questions: []bank.ImportQuestion{
				{Text: "Founded?", Options: []string{"753 BC", "1 AD", "476 AD", "1453"}, Correct: "A"},
			}},
		}},
	}}

	n, err := s.Bank().Import(ctx, f)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Errorf("imported = %d, want 3", n)
	}
	subjects, _ := s.Bank().ListSubjects(ctx)
	if len(subjects) != 3 {
		t.Errorf("subjects = %d, want 3 (Math reused)", len(subjects))
	}
	chapters, _ := s.Bank().ListChapters(ctx, "")
	if len(chapters) != 4 {
		t.Errorf("chapters = %d, want 4 (Algebra reused)", len(chapters))
	}
	pool, _ := s.Bank().LoadQuestionPool(ctx, bank.Scope{})
	if len(pool) != 6 {
		t.Errorf("pool = %d, want 6", len(pool))
	}
}

func TestPerformance_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Performance()

	asked := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	want := ledger.PerformanceRecord{
		QuestionID:     "q1",
		TimesAsked:     7,
		TimesCorrect:   5,
		TimesWrong:     2,
		Streak:         3,
		EaseFactor:     2.36,
		IntervalDays:   15,
		Repetitions:    4,
		MasteryLevel:   mastery.LevelProficient,
		Flagged:        true,
		LastAsked:      asked,
		NextDue:        time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC),
		LastConfidence: spacedrep.ConfidenceUnsure,
	}
	if err := repo.UpsertPerformanceRecords(ctx, testUser, []ledger.PerformanceRecord{want}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	perf, err := repo.LoadPerformanceMap(ctx, testUser)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, ok := perf["q1"]
	if !ok {
		t.Fatal("record missing")
	}
	if got.QuestionID != want.QuestionID || got.TimesAsked != want.TimesAsked ||
		got.TimesCorrect != want.TimesCorrect || got.TimesWrong != want.TimesWrong ||
		got.Streak != want.Streak || got.EaseFactor != want.EaseFactor ||
		got.IntervalDays != want.IntervalDays || got.Repetitions != want.Repetitions ||
		got.MasteryLevel != want.MasteryLevel || got.Flagged != want.Flagged ||
		got.LastConfidence != want.LastConfidence {
		t.Errorf("record = %+v, want %+v", got, want)
	}
	if !got.LastAsked.Equal(want.LastAsked) || !got.NextDue.Equal(want.NextDue) {
		t.Errorf("times = %v/%v, want %v/%v", got.LastAsked, got.NextDue, want.LastAsked, want.NextDue)
	}

	other, err := repo.LoadPerformanceMap(ctx, "someone-else")
	if err != nil {
		t.Fatalf("load other: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other user sees %d records", len(other))
	}
}

func TestPerformance_UpsertOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Performance()

	first := ledger.NewRecord("q1")
	first.TimesAsked = 1
	if err := repo.UpsertPerformanceRecords(ctx, testUser, []ledger.PerformanceRecord{first}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second := first
	second.TimesAsked = 2
	second.Streak = 2
	if err := repo.UpsertPerformanceRecords(ctx, testUser, []ledger.PerformanceRecord{second, ledger.NewRecord("q2")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	perf, err := repo.PerformanceRecords(ctx, testUser, []string{"q1", "q2", "q3"})
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(perf) != 2 {
		t.Fatalf("records = %d, want 2", len(perf))
	}
	if perf["q1"].TimesAsked != 2 || perf["q1"].Streak != 2 {
		t.Errorf("q1 = %+v, want overwritten", perf["q1"])
	}
}

func TestPerformance_LargeBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := make([]ledger.PerformanceRecord, 450)
	ids := make([]string, len(records))
	for i := range records {
		ids[i] = fmt.Sprintf("q%03d", i)
		records[i] = ledger.NewRecord(ids[i])
	}
	if err := s.Performance().UpsertPerformanceRecords(ctx, testUser, records); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	perf, err := s.Performance().PerformanceRecords(ctx, testUser, ids)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(perf) != len(records) {
		t.Errorf("records = %d, want %d", len(perf), len(records))
	}
}

func TestPerformance_Flags(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Performance()

	if err := repo.SetFlagged(ctx, testUser, "q1", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("flag without record err = %v, want ErrNotFound", err)
	}

	if _, err := repo.ToggleFlag(ctx, testUser, "q1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle without record err = %v, want ErrNotFound", err)
	}
	rec := ledger.NewRecord("q1")
	rec.TimesAsked = 1
	if err := repo.UpsertPerformanceRecords(ctx, testUser, []ledger.PerformanceRecord{rec}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	flagged, err := repo.ToggleFlag(ctx, testUser, "q1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !flagged {
		t.Error("first toggle should flag")
	}
	perf, _ := repo.LoadPerformanceMap(ctx, testUser)
	if got := perf["q1"]; !got.Flagged || got.TimesAsked != 1 {
		t.Errorf("flagged record = %+v", got)
	}

	flagged, err = repo.ToggleFlag(ctx, testUser, "q1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if flagged {
		t.Error("second toggle should unflag")
	}
	if err := repo.SetFlagged(ctx, testUser, "q1", true); err != nil {
		t.Fatalf("set flagged: %v", err)
	}
	perf, _ = repo.LoadPerformanceMap(ctx, testUser)
	if !perf["q1"].Flagged {
		t.Error("expected flagged after SetFlagged")
	}
}

func TestPerformance_Reset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Performance()

	recs := []ledger.PerformanceRecord{ledger.NewRecord("q1"), ledger.NewRecord("q2")}
	if err := repo.UpsertPerformanceRecords(ctx, testUser, recs); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertPerformanceRecords(ctx, "u2", recs[:1]); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	n, err := repo.Reset(ctx, testUser)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n != 2 {
		t.Errorf("reset removed %d, want 2", n)
	}
	other, _ := repo.LoadPerformanceMap(ctx, "u2")
	if len(other) != 1 {
		t.Errorf("other user records = %d, want 1", len(other))
	}
}

func TestLedgerCommit_ThroughStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	l := ledger.New(s.Performance(), clock.NewManual(now), nil)
	changes, err := l.Commit(ctx, testUser, []ledger.AnswerResult{
		{QuestionID: "q1", UserAnswer: "A", CorrectAnswer: "A", IsCorrect: true, AttemptedAt: now},
		{QuestionID: "q2", UserAnswer: "B", CorrectAnswer: "C", AttemptedAt: now},
		{QuestionID: "q3", Skipped: true, CorrectAnswer: "D", AttemptedAt: now},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(changes) != 2 {
		t.Errorf("changes = %d, want 2", len(changes))
	}
	perf, _ := s.Performance().LoadPerformanceMap(ctx, testUser)
	if len(perf) != 2 {
		t.Fatalf("records = %d, want 2", len(perf))
	}
	if perf["q1"].TimesCorrect != 1 || perf["q2"].TimesWrong != 1 {
		t.Errorf("records = %+v", perf)
	}
}

func sampleSnapshot(id string, started time.Time) session.Snapshot {
	return session.Snapshot{
		ID:     id,
		UserID: testUser,
		Config: session.Config{
			Mode:       selection.ModeSmart,
			Count:      3,
			TimerType:  session.TimerPerQuestion,
			TimerValue: 30,
		},
		QuestionIDs:  []string{"q1", "q2", "q3"},
		OptionOrders: map[string][]string{"q1": {"B", "A", "D", "C"}},
		Results:      []ledger.AnswerResult{},
		Remaining:    30,
		Status:       session.StatusInProgress,
		Totals:       session.Totals{Total: 3, Unanswered: 3},
		StartedAt:    started,
		UpdatedAt:    started,
	}
}

func TestSessions_Lifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()
	start := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	snap := sampleSnapshot("s1", start)
	if err := repo.CreateSession(ctx, snap); err != nil {
		t.Fatalf("create: %v", err)
	}

	snap.CurrentIndex = 1
	snap.Remaining = 12
	snap.Results = []ledger.AnswerResult{
		{QuestionID: "q1", UserAnswer: "A", CorrectAnswer: "A", IsCorrect: true, TimeSpent: 8, AttemptedAt: start},
	}
	snap.Totals = session.Totals{Total: 3, Answered: 1, Correct: 1, Unanswered: 2}
	snap.Score = 100
	snap.UpdatedAt = start.Add(time.Minute)
	if err := repo.PersistSessionCheckpoint(ctx, snap); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	open, err := repo.InProgressSessions(ctx, testUser)
	if err != nil {
		t.Fatalf("in progress: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open sessions = %d, want 1", len(open))
	}
	got := open[0]
	if got.CurrentIndex != 1 || got.Remaining != 12 || got.Score != 100 {
		t.Errorf("progress = %d/%d/%d", got.CurrentIndex, got.Remaining, got.Score)
	}
	if got.Config.Mode != selection.ModeSmart || got.Config.TimerType != session.TimerPerQuestion {
		t.Errorf("config = %+v", got.Config)
	}
	if len(got.QuestionIDs) != 3 || got.OptionOrders["q1"][0] != "B" {
		t.Errorf("ids/orders = %v/%v", got.QuestionIDs, got.OptionOrders)
	}
	if len(got.Results) != 1 || !got.Results[0].IsCorrect || got.Results[0].TimeSpent != 8 {
		t.Errorf("results = %+v", got.Results)
	}
	if got.Totals.Unanswered != 2 || got.Totals.Wrong != 0 {
		t.Errorf("totals = %+v", got.Totals)
	}

	end := start.Add(5 * time.Minute)
	summary := session.Summary{
		SessionID: "s1",
		UserID:    testUser,
		Totals:    session.Totals{Total: 3, Answered: 2, Correct: 1, Wrong: 1, Skipped: 1},
		Score:     50,
		StartedAt: start,
		EndedAt:   end,
		Results:   snap.Results,
	}
	if err := repo.FinalizeSession(ctx, summary); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	// A late checkpoint must not reopen a finished session.
	if err := repo.PersistSessionCheckpoint(ctx, snap); err != nil {
		t.Fatalf("late checkpoint: %v", err)
	}
	final, err := repo.Session(ctx, "s1")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if final.Status != session.StatusCompleted || final.Score != 50 || !final.EndedAt.Equal(end) {
		t.Errorf("final = %+v", final)
	}
	open, _ = repo.InProgressSessions(ctx, testUser)
	if len(open) != 0 {
		t.Errorf("open sessions after finalize = %d", len(open))
	}

	if _, err := repo.Session(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing session err = %v, want ErrNotFound", err)
	}
	if err := repo.FinalizeSession(ctx, session.Summary{SessionID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("finalize missing err = %v, want ErrNotFound", err)
	}
}

func TestSessions_AbandonAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.CreateSession(ctx, sampleSnapshot(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := repo.AbandonSession(ctx, "b"); err != nil {
		t.Fatalf("abandon: %v", err)
	}

	open, err := repo.InProgressSessions(ctx, testUser)
	if err != nil {
		t.Fatalf("in progress: %v", err)
	}
	if len(open) != 2 || open[0].ID != "c" || open[1].ID != "a" {
		t.Errorf("open = %v, want [c a]", snapshotIDs(open))
	}

	recent, err := repo.RecentSessions(ctx, testUser, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "c" || recent[1].ID != "b" {
		t.Errorf("recent = %v, want [c b]", snapshotIDs(recent))
	}
	if recent[1].Status != session.StatusAbandoned || recent[1].EndedAt.IsZero() {
		t.Errorf("abandoned = %+v", recent[1])
	}
}

func snapshotIDs(list []session.Snapshot) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID
	}
	return out
}

func TestTemplates_KeepsNewestFive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Templates()
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	for i := range 7 {
		err := repo.SaveTemplate(ctx, session.Template{
			ID:        fmt.Sprintf("t%d", i),
			UserID:    testUser,
			Name:      fmt.Sprintf("Template %d", i),
			Config:    session.Config{Mode: selection.ModeDue, Count: 10 + i},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	list, err := repo.ListTemplates(ctx, testUser)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != session.MaxTemplates {
		t.Fatalf("templates = %d, want %d", len(list), session.MaxTemplates)
	}
	if list[0].ID != "t6" || list[len(list)-1].ID != "t2" {
		t.Errorf("order = %s..%s, want t6..t2", list[0].ID, list[len(list)-1].ID)
	}
	if list[0].Config.Mode != selection.ModeDue || list[0].Config.Count != 16 {
		t.Errorf("config = %+v", list[0].Config)
	}

	if err := repo.DeleteTemplate(ctx, testUser, "t6"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteTemplate(ctx, testUser, "t6"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteTemplate(ctx, "u2", "t5"); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user delete err = %v, want ErrNotFound", err)
	}
}
