package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/talent-screener/internal/db"
)

// ---------------------------------------------------------------------
// Dashboard Handlers
// ---------------------------------------------------------------------

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDashboardStats(r.Context(), time.Now())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	entries, err := s.db.RecentActivity(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if entries == nil {
		entries = []db.ActivityLogEntry{}
	}

	s.jsonResponse(w, http.StatusOK, entries)
}

func (s *Server) handleTopCandidates(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 5)

	candidates, err := s.db.TopCandidates(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	result := []map[string]any{}
	for _, c := range candidates {
		result = append(result, map[string]any{
			"id":             c.ID,
			"name":           c.Name,
			"match_score":    c.MatchScore,
			"star_rating":    c.StarRating,
			"recommendation": c.Recommendation,
			"current_role":   c.CurrentRole,
			"status":         c.Status,
			"jd_title":       c.JDTitle,
		})
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// queryInt parses an integer query parameter, falling back to def for
// missing or unparsable values.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
