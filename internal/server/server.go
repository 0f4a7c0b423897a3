// Package server provides the HTTP REST API for the talent screener.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-screener/internal/activity"
	"github.com/jonathan/talent-screener/internal/analysis"
	"github.com/jonathan/talent-screener/internal/db"
	"github.com/jonathan/talent-screener/internal/llm"
	"github.com/jonathan/talent-screener/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	llmClient   llm.Client
	analyzer    *analysis.Analyzer
	rateLimiter *ratelimit.Limiter
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	Model       string
}

// New creates a new server instance. It connects to the database,
// applies the schema, and builds the LLM client.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	s := newServer(database, client)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for bulk analysis
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires handlers against the given dependencies. Split from
// New so tests can build a server without a live database or API key.
func newServer(database *db.DB, client llm.Client) *Server {
	return &Server{
		db:          database,
		llmClient:   client,
		analyzer:    analysis.NewAnalyzer(client),
		rateLimiter: ratelimit.NewLimiter(120, time.Minute),
	}
}

// routes builds the router with middleware applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Job descriptions
	mux.HandleFunc("GET /api/jds", s.handleListJDs)
	mux.HandleFunc("POST /api/jds", s.handleCreateJD)
	mux.HandleFunc("POST /api/jds/generate", s.handleGenerateJD)
	mux.HandleFunc("POST /api/jds/upload", s.handleUploadJD)
	mux.HandleFunc("GET /api/jds/{id}", s.handleGetJD)
	mux.HandleFunc("PUT /api/jds/{id}", s.handleUpdateJD)
	mux.HandleFunc("DELETE /api/jds/{id}", s.handleDeleteJD)

	// Candidates
	mux.HandleFunc("POST /api/candidates/analyze", s.handleAnalyzeResume)
	mux.HandleFunc("POST /api/candidates/bulk-analyze", s.handleBulkAnalyze)
	mux.HandleFunc("GET /api/candidates", s.handleListCandidates)
	mux.HandleFunc("GET /api/candidates/export/csv", s.handleExportCSV)
	mux.HandleFunc("POST /api/candidates/compare", s.handleCompareCandidates)
	mux.HandleFunc("GET /api/candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PUT /api/candidates/{id}/status", s.handleUpdateCandidateStatus)
	mux.HandleFunc("PUT /api/candidates/{id}/notes", s.handleUpdateCandidateNotes)
	mux.HandleFunc("DELETE /api/candidates/{id}", s.handleDeleteCandidate)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", s.handleDashboardStats)
	mux.HandleFunc("GET /api/dashboard/recent-activity", s.handleRecentActivity)
	mux.HandleFunc("GET /api/dashboard/top-candidates", s.handleTopCandidates)

	// Emails
	mux.HandleFunc("POST /api/emails/generate", s.handleGenerateEmail)
	mux.HandleFunc("POST /api/emails/templates", s.handleSaveEmailTemplate)
	mux.HandleFunc("GET /api/emails/templates", s.handleListEmailTemplates)
	mux.HandleFunc("DELETE /api/emails/templates/{id}", s.handleDeleteEmailTemplate)

	// Chat
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/chat/suggestions", s.handleChatSuggestions)

	// Tracker
	mux.HandleFunc("GET /api/tracker/today", s.handleTrackerToday)
	mux.HandleFunc("GET /api/tracker/weekly", s.handleTrackerWeekly)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit adds per-client rate limiting
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r))

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))

		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client identifier from RemoteAddr.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleRoot returns the service banner
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"service": "talent-screener",
		"status":  "running",
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// logActivity appends an audit record; failures are logged and ignored
// so an audit miss never fails the operation it records.
func (s *Server) logActivity(ctx context.Context, action activity.Action, entityType string, entityID uuid.UUID, details string) {
	if err := s.db.LogActivity(ctx, string(action), entityType, entityID, details); err != nil {
		log.Printf("Error logging activity %s: %v", action, err)
	}
}
