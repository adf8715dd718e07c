// Package stats aggregates the performance ledger and session history into
// dashboard figures.
package stats

import (
	"sort"
	"time"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/clock"
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/spacedrep"
)

// DefaultDailyGoal is the number of answers a day the dashboard aims for.
const DefaultDailyGoal = 50

// Options tune the dashboard.
type Options struct {
	StaleDays int
	DailyGoal int
}

// SubjectStats summarizes one subject.
type SubjectStats struct {
	SubjectID string
	Name      string
	Questions int
	Seen      int
	Mastered  int
	Asked     int
	Correct   int
}

// Accuracy is correct over asked for the subject, 0..1.
func (s SubjectStats) Accuracy() float64 {
	if s.Asked == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Asked)
}

// SessionScore is one finished session on the dashboard.
type SessionScore struct {
	ID        string
	Mode      selection.Mode
	Score     int
	Answered  int
	Total     int
	StartedAt time.Time
}

// Dashboard is the progress overview.
type Dashboard struct {
	TotalQuestions int
	Seen           int
	Distribution   map[mastery.Level]int
	TimesAsked     int
	TimesCorrect   int
	DueToday       int
	Stale          int
	Flagged        int
	NearMastery    int
	AnsweredToday  int
	DailyGoal      int
	Subjects       []SubjectStats
	RecentScores   []SessionScore
}

// Accuracy is the overall correct ratio, 0..1.
func (d Dashboard) Accuracy() float64 {
	if d.TimesAsked == 0 {
		return 0
	}
	return float64(d.TimesCorrect) / float64(d.TimesAsked)
}

// GoalProgress is today's answers over the daily goal, capped at 1.
func (d Dashboard) GoalProgress() float64 {
	if d.DailyGoal <= 0 {
		return 0
	}
	return min(float64(d.AnsweredToday)/float64(d.DailyGoal), 1)
}

// MasteredShare is the fraction of the pool at LevelMastered.
func (d Dashboard) MasteredShare() float64 {
	if d.TotalQuestions == 0 {
		return 0
	}
	return float64(d.Distribution[mastery.LevelMastered]) / float64(d.TotalQuestions)
}

// Compute builds the dashboard for pool. Records for questions outside the
// pool are ignored. sessions are expected newest first.
func Compute(pool []bank.Question, perf ledger.PerformanceMap, sessions []session.Snapshot, now time.Time, opts Options) Dashboard {
	if opts.StaleDays <= 0 {
		opts.StaleDays = spacedrep.DefaultStaleDays
	}
	if opts.DailyGoal <= 0 {
		opts.DailyGoal = DefaultDailyGoal
	}

	d := Dashboard{
		TotalQuestions: len(pool),
		Distribution:   make(map[mastery.Level]int, len(mastery.Levels)),
		DailyGoal:      opts.DailyGoal,
	}
	for _, l := range mastery.Levels {
		d.Distribution[l] = 0
	}

	subjects := map[string]*SubjectStats{}
	for _, q := range pool {
		ss, ok := subjects[q.SubjectID]
		if !ok {
			ss = &SubjectStats{SubjectID: q.SubjectID, Name: q.SubjectName}
			subjects[q.SubjectID] = ss
		}
		ss.Questions++

		rec, ok := perf[q.ID]
		if !ok || !rec.Seen() {
			d.Distribution[mastery.LevelUnseen]++
			continue
		}
		level := rec.MasteryLevel
		if !level.Valid() {
			level = mastery.LevelUnseen
		}
		d.Distribution[level]++
		d.Seen++
		d.TimesAsked += rec.TimesAsked
		d.TimesCorrect += rec.TimesCorrect
		ss.Seen++
		ss.Asked += rec.TimesAsked
		ss.Correct += rec.TimesCorrect
		if level == mastery.LevelMastered {
			ss.Mastered++
		}
		if spacedrep.IsDueToday(rec.NextDue, now) {
			d.DueToday++
		}
		if spacedrep.IsStale(rec.LastAsked, now, opts.StaleDays) {
			d.Stale++
		}
		if rec.Flagged {
			d.Flagged++
		}
		if rec.NearMastery() {
			d.NearMastery++
		}
	}

	for _, ss := range subjects {
		d.Subjects = append(d.Subjects, *ss)
	}
	sort.Slice(d.Subjects, func(i, j int) bool {
		if d.Subjects[i].Name != d.Subjects[j].Name {
			return d.Subjects[i].Name < d.Subjects[j].Name
		}
		return d.Subjects[i].SubjectID < d.Subjects[j].SubjectID
	})

	today := clock.StartOfDay(now)
	for _, s := range sessions {
		if !s.StartedAt.Before(today) {
			d.AnsweredToday += s.Totals.Answered
		}
		if s.Status == session.StatusCompleted {
			d.RecentScores = append(d.RecentScores, SessionScore{
				ID:        s.ID,
				Mode:      s.Config.Mode,
				Score:     s.Score,
				Answered:  s.Totals.Answered,
				Total:     s.Totals.Total,
				StartedAt: s.StartedAt,
			})
		}
	}
	return d
}
