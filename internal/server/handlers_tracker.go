package server

import (
	"net/http"
	"time"

	"github.com/jonathan/talent-screener/internal/activity"
)

// ---------------------------------------------------------------------
// Daily Tracker Handlers
// ---------------------------------------------------------------------

type timelineEntry struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	Details string `json:"details"`
	Time    string `json:"time"`
}

// handleTrackerToday summarizes today's activity with a per-category
// breakdown and a newest-first timeline. Days start at UTC midnight.
func (s *Server) handleTrackerToday(w http.ResponseWriter, r *http.Request) {
	dayStart := activity.StartOfDayUTC(time.Now())

	entries, err := s.db.ActivityBetween(r.Context(), dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	breakdown := map[activity.Category]int{
		activity.CategoryResumes:       0,
		activity.CategoryJDs:           0,
		activity.CategoryEmails:        0,
		activity.CategoryStatusUpdates: 0,
		activity.CategoryChats:         0,
	}
	for _, e := range entries {
		category := activity.Action(e.Action).Category()
		if category != activity.CategoryOther {
			breakdown[category]++
		}
	}

	// Newest first for the timeline.
	timeline := make([]timelineEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		timeline = append(timeline, timelineEntry{
			ID:      e.ID.String(),
			Action:  e.Action,
			Details: e.Details,
			Time:    e.CreatedAt.UTC().Format("03:04 PM"),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"date":          dayStart.Format("2006-01-02"),
		"total_actions": len(entries),
		"breakdown":     breakdown,
		"timeline":      timeline,
	})
}

// handleTrackerWeekly reports the last seven days of activity counts,
// the current daily streak, and all-time totals.
func (s *Server) handleTrackerWeekly(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	countForDay := func(day time.Time) int {
		count, err := s.db.CountActivityBetween(r.Context(), day, day.Add(24*time.Hour))
		if err != nil {
			return 0
		}
		return count
	}

	week := activity.WeeklySummary(now, countForDay)
	streak := activity.Streak(now, countForDay)

	totals, err := s.db.GetTotals(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"days":             week,
		"streak":           streak,
		"total_actions":    totals.Actions,
		"total_candidates": totals.Candidates,
		"total_jds":        totals.JDs,
	})
}
