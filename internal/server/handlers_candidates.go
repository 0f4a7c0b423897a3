package server

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-screener/internal/activity"
	"github.com/jonathan/talent-screener/internal/analysis"
	"github.com/jonathan/talent-screener/internal/db"
	"github.com/jonathan/talent-screener/internal/extraction"
	"github.com/jonathan/talent-screener/internal/prompts"
)

// maxUploadBytes bounds multipart form memory for resume uploads.
const maxUploadBytes = 20 << 20

// storedResumeTextLimit caps how much extracted text is persisted per
// candidate.
const storedResumeTextLimit = 5000

// bulkAnalyzeWorkers bounds concurrent LLM calls during bulk analysis.
const bulkAnalyzeWorkers = 4

// ---------------------------------------------------------------------
// Candidate Handlers
// ---------------------------------------------------------------------

// analyzeAndStore runs extraction, AI analysis, and persistence for one
// resume. Extraction failures come back as *ErrValidation (nothing
// persisted, client's fault); persistence failures stay plain errors so
// HTTPStatus maps them to 500. AI failures persist the fallback
// analysis. The raw analysis is returned alongside the stored row
// because a few advisory fields (culture fit, red flags, interview
// questions) are response-only, never stored.
func (s *Server) analyzeAndStore(ctx context.Context, jd *db.JobDescription, filename string, data []byte) (*db.Candidate, *analysis.ResumeAnalysis, error) {
	resumeText, err := extraction.Extract(filename, data)
	if err != nil {
		return nil, nil, &ErrValidation{Field: "resume", Message: err.Error()}
	}
	resumeText = extraction.NormalizeText(resumeText)
	if resumeText == "" {
		return nil, nil, &ErrValidation{Field: "resume", Message: "could not extract text from resume"}
	}

	result := s.analyzer.AnalyzeResume(ctx, jd.FullText(), resumeText)

	stored := resumeText
	if len(stored) > storedResumeTextLimit {
		stored = stored[:storedResumeTextLimit]
	}

	id, err := s.db.CreateCandidate(ctx, db.CreateCandidateParams{
		JDID:               jd.ID,
		Name:               result.CandidateName,
		Email:              result.CandidateEmail,
		Phone:              result.CandidatePhone,
		CurrentRole:        result.CurrentRole,
		ExperienceYears:    result.ExperienceYears,
		ResumeFilename:     filename,
		ResumeText:         stored,
		MatchScore:         result.OverallMatchScore,
		StarRating:         result.StarRating,
		Recommendation:     result.Recommendation,
		OverallSummary:     result.OverallSummary,
		Strengths:          result.Strengths,
		Gaps:               result.Gaps,
		MatchedSkills:      result.MatchedSkills,
		MissingSkills:      result.MissingSkills,
		ExperienceAnalysis: result.ExperienceAnalysis,
	})
	if err != nil {
		return nil, nil, err
	}

	s.logActivity(ctx, activity.ActionResumeAnalyzed, "candidate", id,
		fmt.Sprintf("Analyzed %s for %s - Score: %.0f%%", result.CandidateName, jd.Title, result.OverallMatchScore))

	candidate, err := s.db.GetCandidate(ctx, id)
	if err != nil || candidate == nil {
		return nil, nil, fmt.Errorf("failed to load stored candidate: %w", err)
	}
	return candidate, &result, nil
}

type analyzeResponse struct {
	db.Candidate
	CultureFitNotes             string   `json:"culture_fit_notes"`
	RedFlags                    []string `json:"red_flags"`
	SuggestedInterviewQuestions []string `json:"suggested_interview_questions"`
}

func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	jdID, err := uuid.Parse(r.FormValue("jd_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid or missing jd_id")
		return
	}

	jd, err := s.db.GetJD(r.Context(), jdID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if jd == nil {
		s.errorResponse(w, http.StatusNotFound, "JD not found")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing resume file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Could not read resume file")
		return
	}

	candidate, result, err := s.analyzeAndStore(r.Context(), jd, header.Filename, data)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, analyzeResponse{
		Candidate:                   *candidate,
		CultureFitNotes:             result.CultureFitNotes,
		RedFlags:                    result.RedFlags,
		SuggestedInterviewQuestions: result.SuggestedInterviewQuestions,
	})
}

type bulkFileResult struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	MatchScore     float64 `json:"match_score"`
	StarRating     float64 `json:"star_rating"`
	Recommendation string  `json:"recommendation"`
	Filename       string  `json:"filename"`
}

type bulkFileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// handleBulkAnalyze analyzes several resumes in one request through a
// bounded worker pool. Results preserve upload order; one file's
// failure never aborts the batch.
func (s *Server) handleBulkAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	jdID, err := uuid.Parse(r.FormValue("jd_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid or missing jd_id")
		return
	}

	jd, err := s.db.GetJD(r.Context(), jdID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if jd == nil {
		s.errorResponse(w, http.StatusNotFound, "JD not found")
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["resumes"]
	}
	if len(headers) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "No resume files provided")
		return
	}

	// Read everything up front; multipart readers are not safe to share
	// across goroutines.
	type upload struct {
		filename string
		data     []byte
		readErr  error
	}
	uploads := make([]upload, len(headers))
	for i, header := range headers {
		uploads[i].filename = header.Filename
		f, err := header.Open()
		if err != nil {
			uploads[i].readErr = err
			continue
		}
		uploads[i].data, uploads[i].readErr = io.ReadAll(f)
		f.Close()
	}

	type outcome struct {
		candidate *db.Candidate
		err       error
	}
	outcomes := make([]outcome, len(uploads))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(bulkAnalyzeWorkers)
	for i := range uploads {
		g.Go(func() error {
			u := uploads[i]
			if u.readErr != nil {
				outcomes[i].err = u.readErr
				return nil
			}
			outcomes[i].candidate, _, outcomes[i].err = s.analyzeAndStore(ctx, jd, u.filename, u.data)
			return nil
		})
	}
	// Workers record per-file outcomes instead of returning errors, so a
	// batch never fails as a whole; Wait only synchronizes.
	_ = g.Wait()

	results := []bulkFileResult{}
	errorsList := []bulkFileError{}
	for i, o := range outcomes {
		if o.err != nil {
			errorsList = append(errorsList, bulkFileError{File: uploads[i].filename, Error: o.err.Error()})
			continue
		}
		results = append(results, bulkFileResult{
			ID:             o.candidate.ID.String(),
			Name:           o.candidate.Name,
			MatchScore:     o.candidate.MatchScore,
			StarRating:     o.candidate.StarRating,
			Recommendation: o.candidate.Recommendation,
			Filename:       uploads[i].filename,
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"processed": len(results),
		"failed":    len(errorsList),
		"results":   results,
		"errors":    errorsList,
	})
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := db.CandidateFilters{
		Status:         q.Get("status"),
		Recommendation: q.Get("recommendation"),
		Search:         q.Get("search"),
		SortBy:         q.Get("sort_by"),
		SortOrder:      q.Get("sort_order"),
	}

	if raw := q.Get("jd_id"); raw != "" {
		jdID, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid jd_id")
			return
		}
		filters.JDID = jdID
	}
	if raw := q.Get("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid min_score")
			return
		}
		filters.MinScore = &v
	}
	if raw := q.Get("max_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid max_score")
			return
		}
		filters.MaxScore = &v
	}

	candidates, err := s.db.ListCandidates(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidates == nil {
		candidates = []db.Candidate{}
	}

	s.jsonResponse(w, http.StatusOK, candidates)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, err := s.db.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, candidate)
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=new shortlisted interviewing rejected hired on_hold"`
}

func (s *Server) handleUpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	var req StatusUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	candidate, err := s.db.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	oldStatus, found, err := s.db.UpdateCandidateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !found {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	s.logActivity(r.Context(), activity.ActionStatusChanged, "candidate", id,
		fmt.Sprintf("%s: %s -> %s", candidate.Name, oldStatus, req.Status))

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"id":      id.String(),
		"message": fmt.Sprintf("%s status updated to '%s'", candidate.Name, req.Status),
	})
}

type NotesUpdateRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleUpdateCandidateNotes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	var req NotesUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	candidate, err := s.db.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	if _, err := s.db.UpdateCandidateNotes(r.Context(), id, req.Notes); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r.Context(), activity.ActionNotesUpdated, "candidate", id, "Notes updated for "+candidate.Name)

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"id":      id.String(),
		"message": "Notes updated for " + candidate.Name,
	})
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, err := s.db.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	if _, err := s.db.DeleteCandidate(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Candidate '%s' removed.", candidate.Name),
	})
}

type CompareRequest struct {
	CandidateIDs []string `json:"candidate_ids" validate:"required,min=2,dive,uuid"`
}

// handleCompareCandidates ranks stored candidates against their JD. The
// comparison is returned to the caller, never persisted.
func (s *Server) handleCompareCandidates(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.CandidateIDs))
	for _, raw := range req.CandidateIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID: "+raw)
			return
		}
		ids = append(ids, id)
	}

	candidates, err := s.db.GetCandidatesByIDs(r.Context(), ids)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if len(candidates) < 2 {
		s.errorResponse(w, http.StatusBadRequest, "Need at least 2 candidates to compare")
		return
	}

	jdText := "No JD available"
	if jd, err := s.db.GetJD(r.Context(), candidates[0].JDID); err == nil && jd != nil {
		jdText = jd.Title + "\n\n" + jd.Description
	}

	summaries := make([]prompts.CandidateSummary, 0, len(candidates))
	for _, c := range candidates {
		summaries = append(summaries, prompts.CandidateSummary{
			Name:            c.Name,
			MatchScore:      c.MatchScore,
			Strengths:       c.Strengths,
			Gaps:            c.Gaps,
			ExperienceYears: c.ExperienceYears,
		})
	}

	result := s.analyzer.CompareCandidates(r.Context(), summaries, jdText)
	s.jsonResponse(w, http.StatusOK, result)
}

// csvHeader is the fixed export column set.
var csvHeader = []string{
	"Name", "Email", "Phone", "Current Role", "Experience (Years)",
	"Match Score", "Star Rating", "Recommendation", "Status",
	"Resume File", "Analyzed At", "HR Notes",
}

// handleExportCSV streams candidates as a CSV attachment, highest score
// first, optionally limited to one JD.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var jdID uuid.UUID
	if raw := r.URL.Query().Get("jd_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid jd_id")
			return
		}
		jdID = parsed
	}

	candidates, err := s.db.ExportCandidates(r.Context(), jdID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=candidates_export.csv")
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	_ = writer.Write(csvHeader)
	for _, c := range candidates {
		_ = writer.Write([]string{
			c.Name, c.Email, c.Phone, c.CurrentRole,
			strconv.FormatFloat(c.ExperienceYears, 'f', -1, 64),
			strconv.FormatFloat(c.MatchScore, 'f', -1, 64),
			strconv.FormatFloat(c.StarRating, 'f', -1, 64),
			c.Recommendation, c.Status, c.ResumeFilename,
			c.AnalyzedAt.UTC().Format(time.RFC3339), c.HRNotes,
		})
	}
	writer.Flush()
}
