package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActionCategory(t *testing.T) {
	tests := []struct {
		action Action
		want   Category
	}{
		{ActionResumeAnalyzed, CategoryResumes},
		{ActionJDCreated, CategoryJDs},
		{ActionJDGenerated, CategoryJDs},
		{ActionJDUploaded, CategoryJDs},
		{ActionJDUpdated, CategoryOther},
		{ActionJDDeleted, CategoryOther},
		{ActionStatusChanged, CategoryStatusUpdates},
		{ActionEmailGenerated, CategoryEmails},
		{ActionTemplateSaved, CategoryEmails},
		{ActionChat, CategoryChats},
		{Action("unknown_thing"), CategoryOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.Category())
		})
	}
}

func TestStreak(t *testing.T) {
	today := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	countsFor := func(activeDays int) func(time.Time) int {
		dayStart := StartOfDayUTC(today)
		return func(day time.Time) int {
			offset := int(dayStart.Sub(day).Hours() / 24)
			if offset < activeDays {
				return 3
			}
			return 0
		}
	}

	assert.Equal(t, 0, Streak(today, countsFor(0)))
	assert.Equal(t, 1, Streak(today, countsFor(1)))
	assert.Equal(t, 5, Streak(today, countsFor(5)))
	// The walk never goes past 30 days.
	assert.Equal(t, 30, Streak(today, countsFor(90)))
}

func TestStreak_BreaksOnGapDay(t *testing.T) {
	today := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	dayStart := StartOfDayUTC(today)

	// Active today and yesterday, gap two days ago, active before that.
	counts := func(day time.Time) int {
		offset := int(dayStart.Sub(day).Hours() / 24)
		if offset == 2 {
			return 0
		}
		return 1
	}

	assert.Equal(t, 2, Streak(today, counts))
}

func TestWeeklySummary(t *testing.T) {
	today := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC) // a Sunday

	counts := map[string]int{
		"2025-06-15": 4,
		"2025-06-13": 2,
	}
	week := WeeklySummary(today, func(day time.Time) int {
		return counts[day.Format("2006-01-02")]
	})

	assert.Len(t, week, 7)
	// Oldest first, newest last.
	assert.Equal(t, "2025-06-09", week[0].Date)
	assert.Equal(t, "Mon", week[0].Day)
	assert.Equal(t, "Today", week[6].Day)
	assert.Equal(t, 4, week[6].Count)
	assert.Equal(t, "Yesterday", week[5].Day)
	assert.Equal(t, 0, week[5].Count)
	assert.Equal(t, 2, week[4].Count)
}

func TestStartOfDayUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	t1 := time.Date(2025, 6, 15, 2, 0, 0, 0, loc) // 2025-06-14 21:00 UTC

	got := StartOfDayUTC(t1)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), got)
}
