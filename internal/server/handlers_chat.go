package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-screener/internal/activity"
)

// ---------------------------------------------------------------------
// Chat Handlers
// ---------------------------------------------------------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	Context string `json:"context"`
}

// handleChat answers a free-form HR question with live pipeline data
// folded into the prompt.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	dbContext := ""
	if snap, err := s.db.GetPipelineSnapshot(r.Context(), 5); err == nil {
		parts := []string{
			fmt.Sprintf("Current database status: %d active JDs, %d total candidates analyzed",
				snap.ActiveJDs, snap.TotalCandidates),
			fmt.Sprintf("Pipeline: %d shortlisted, %d hired", snap.Shortlisted, snap.Hired),
		}
		if len(snap.Recent) > 0 {
			recent := make([]string, 0, len(snap.Recent))
			for _, c := range snap.Recent {
				recent = append(recent, fmt.Sprintf("%s (%.0f%% match, status: %s)", c.Name, c.MatchScore, c.Status))
			}
			parts = append(parts, "Recent candidates: "+strings.Join(recent, ", "))
		}
		dbContext = strings.Join(parts, "\n")
	}

	response := s.analyzer.Chat(r.Context(), req.Message, dbContext, req.Context)

	s.logActivity(r.Context(), activity.ActionChat, "chat", uuid.Nil,
		"Chat: "+messagePreview(req.Message, 100)+"...")

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"response":  response,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// messagePreview shortens a message for the activity log, cutting on a
// rune boundary so multi-byte characters are never split.
func messagePreview(msg string, limit int) string {
	runes := []rune(msg)
	if len(runes) <= limit {
		return msg
	}
	return string(runes[:limit])
}

// handleChatSuggestions returns contextual prompt suggestions based on
// the current pipeline size.
func (s *Server) handleChatSuggestions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.db.GetPipelineSnapshot(r.Context(), 0)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	suggestions := []string{
		"How can I improve my hiring process?",
		"Help me write interview questions",
		"Tips for better job descriptions",
	}
	if snap.ActiveJDs == 0 {
		suggestions = append([]string{"Help me create my first job description"}, suggestions...)
	}
	if snap.TotalCandidates > 0 {
		suggestions = append([]string{"Show me a summary of my pipeline"}, suggestions...)
	}
	if snap.TotalCandidates > 5 {
		suggestions = append([]string{"Who are my top candidates?"}, suggestions...)
	}
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}

	s.jsonResponse(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}
