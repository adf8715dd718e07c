package spacedrep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDue_AnchorsToStartOfDay(t *testing.T) {
	reviewed := time.Date(2025, 1, 1, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), NextDue(reviewed, 6))
}

func TestIsDueToday(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		nextDue time.Time
		want    bool
	}{
		{"zero", time.Time{}, false},
		{"yesterday", now.AddDate(0, 0, -1), true},
		{"later today", time.Date(2025, 1, 10, 23, 0, 0, 0, time.UTC), true},
		{"tomorrow midnight", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDueToday(tt.nextDue, now))
		})
	}
}

func TestIsStale(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.False(t, IsStale(time.Time{}, now, 30))
	assert.False(t, IsStale(now.AddDate(0, 0, -29), now, 30))
	assert.True(t, IsStale(now.AddDate(0, 0, -30), now, 30))
	assert.True(t, IsStale(now.AddDate(0, 0, -90), now, 30))
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, -1, DaysSince(time.Time{}, now))
	assert.Equal(t, 0, DaysSince(now.Add(-23*time.Hour), now))
	assert.Equal(t, 5, DaysSince(now.Add(-5*24*time.Hour-time.Hour), now))
}
