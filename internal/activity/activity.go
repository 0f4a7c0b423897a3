// Package activity defines the closed set of auditable actions and the
// daily-tracker calculations built on top of the activity log.
package activity

import "time"

// Action identifies one kind of audited event. The set is closed:
// classification switches on the action value itself rather than
// matching substrings, so new actions must be added here to be counted.
type Action string

// All recognized actions.
const (
	ActionResumeAnalyzed Action = "resume_analyzed"
	ActionJDCreated      Action = "jd_created"
	ActionJDGenerated    Action = "jd_generated"
	ActionJDUploaded     Action = "jd_uploaded"
	ActionJDUpdated      Action = "jd_updated"
	ActionJDDeleted      Action = "jd_deleted"
	ActionStatusChanged  Action = "status_changed"
	ActionNotesUpdated   Action = "notes_updated"
	ActionEmailGenerated Action = "email_generated"
	ActionTemplateSaved  Action = "template_saved"
	ActionChat           Action = "chat_interaction"
)

// Category buckets actions for the daily tracker breakdown.
type Category string

// Tracker categories.
const (
	CategoryResumes       Category = "resumes_analyzed"
	CategoryJDs           Category = "jds_created"
	CategoryEmails        Category = "emails_sent"
	CategoryStatusUpdates Category = "status_updates"
	CategoryChats         Category = "chats"
	CategoryOther         Category = "other"
)

// Category returns the tracker bucket for an action.
func (a Action) Category() Category {
	switch a {
	case ActionResumeAnalyzed:
		return CategoryResumes
	case ActionJDCreated, ActionJDGenerated, ActionJDUploaded:
		return CategoryJDs
	case ActionEmailGenerated, ActionTemplateSaved:
		return CategoryEmails
	case ActionStatusChanged:
		return CategoryStatusUpdates
	case ActionChat:
		return CategoryChats
	default:
		return CategoryOther
	}
}

// streakCap bounds the backward walk when computing the streak.
const streakCap = 30

// Streak counts consecutive days with at least one activity, walking
// backward from today. countForDay reports the number of activities on
// the day starting at the given UTC midnight. The walk stops at the
// first zero-activity day and is capped at 30 days.
func Streak(today time.Time, countForDay func(dayStart time.Time) int) int {
	dayStart := StartOfDayUTC(today)
	streak := 0
	for i := 0; i < streakCap; i++ {
		if countForDay(dayStart.AddDate(0, 0, -i)) == 0 {
			break
		}
		streak++
	}
	return streak
}

// DaySummary is one entry of the weekly tracker view.
type DaySummary struct {
	Day   string `json:"day"`
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// WeeklySummary builds the last seven days of activity counts,
// oldest-first, labeling the two most recent days Today and Yesterday.
func WeeklySummary(today time.Time, countForDay func(dayStart time.Time) int) []DaySummary {
	dayStart := StartOfDayUTC(today)
	week := make([]DaySummary, 0, 7)
	for i := 6; i >= 0; i-- {
		day := dayStart.AddDate(0, 0, -i)
		label := day.Weekday().String()[:3]
		switch i {
		case 0:
			label = "Today"
		case 1:
			label = "Yesterday"
		}
		week = append(week, DaySummary{
			Day:   label,
			Date:  day.Format("2006-01-02"),
			Count: countForDay(day),
		})
	}
	return week
}

// StartOfDayUTC truncates a time to UTC midnight.
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
