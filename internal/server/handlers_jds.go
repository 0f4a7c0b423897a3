package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/talent-screener/internal/activity"
	"github.com/jonathan/talent-screener/internal/db"
	"github.com/jonathan/talent-screener/internal/extraction"
)

// ---------------------------------------------------------------------
// Job Description Handlers
// ---------------------------------------------------------------------

type CreateJDRequest struct {
	Title           string `json:"title" validate:"required"`
	Department      string `json:"department"`
	Location        string `json:"location"`
	EmploymentType  string `json:"employment_type"`
	ExperienceLevel string `json:"experience_level"`
	SalaryRange     string `json:"salary_range"`
	Description     string `json:"description" validate:"required"`
	Requirements    string `json:"requirements"`
	NiceToHave      string `json:"nice_to_have"`
}

func (s *Server) handleListJDs(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	jds, err := s.db.ListJDs(r.Context(), status)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if jds == nil {
		jds = []db.JobDescription{}
	}

	s.jsonResponse(w, http.StatusOK, jds)
}

func (s *Server) handleGetJD(w http.ResponseWriter, r *http.Request) {
	jdID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JD ID")
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

	s.jsonResponse(w, http.StatusOK, jd)
}

func (s *Server) handleCreateJD(w http.ResponseWriter, r *http.Request) {
	var req CreateJDRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := s.db.CreateJD(r.Context(), db.CreateJDParams{
		Title:           req.Title,
		Department:      req.Department,
		Location:        req.Location,
		EmploymentType:  req.EmploymentType,
		ExperienceLevel: req.ExperienceLevel,
		SalaryRange:     req.SalaryRange,
		Description:     req.Description,
		Requirements:    req.Requirements,
		NiceToHave:      req.NiceToHave,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r.Context(), activity.ActionJDCreated, "jd", id, "Created JD: "+req.Title)

	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"id":      id.String(),
		"message": fmt.Sprintf("JD '%s' created successfully!", req.Title),
	})
}

type GenerateJDRequest struct {
	Title           string `json:"title" validate:"required"`
	Department      string `json:"department"`
	Brief           string `json:"brief" validate:"required"`
	ExperienceLevel string `json:"experience_level"`
}

// handleGenerateJD generates a JD with AI and persists it. AI failures
// degrade to a fallback JD rather than an error response.
func (s *Server) handleGenerateJD(w http.ResponseWriter, r *http.Request) {
	var req GenerateJDRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	generated := s.analyzer.GenerateJD(r.Context(), req.Title, req.Department, req.Brief, req.ExperienceLevel)

	id, err := s.db.CreateJD(r.Context(), db.CreateJDParams{
		Title:           generated.Title,
		Department:      req.Department,
		ExperienceLevel: req.ExperienceLevel,
		SalaryRange:     generated.SalarySuggestion,
		Description:     generated.Description,
		Requirements:    generated.Requirements,
		NiceToHave:      generated.NiceToHave,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r.Context(), activity.ActionJDGenerated, "jd", id, "AI-generated JD: "+generated.Title)

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"id":      id.String(),
		"message": fmt.Sprintf("AI-generated JD '%s' created!", generated.Title),
		"jd":      generated,
	})
}

// handleUploadJD creates a JD from an uploaded file. The title is
// derived from the filename.
func (s *Server) handleUploadJD(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Could not read file")
		return
	}

	text, err := extraction.Extract(header.Filename, data)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	text = extraction.NormalizeText(text)
	if len(strings.TrimSpace(text)) < 10 {
		s.errorResponse(w, http.StatusBadRequest, "Could not extract text from file")
		return
	}

	title := titleFromFilename(header.Filename)

	id, err := s.db.CreateJD(r.Context(), db.CreateJDParams{
		Title:       title,
		Description: text,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r.Context(), activity.ActionJDUploaded, "jd", id, "Uploaded JD from file: "+header.Filename)

	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"id":      id.String(),
		"message": fmt.Sprintf("JD '%s' created from uploaded file!", title),
	})
}

// titleFromFilename turns "senior_backend-engineer.pdf" into
// "Senior Backend Engineer".
func titleFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)

	words := strings.Fields(base)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

func (s *Server) handleUpdateJD(w http.ResponseWriter, r *http.Request) {
	jdID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JD ID")
		return
	}

	var params db.UpdateJDParams
	if err := decodeAndValidate(r, &params); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	found, err := s.db.UpdateJD(r.Context(), jdID, params)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !found {
		s.errorResponse(w, http.StatusNotFound, "JD not found")
		return
	}

	jd, err := s.db.GetJD(r.Context(), jdID)
	if err != nil || jd == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.logActivity(r.Context(), activity.ActionJDUpdated, "jd", jdID, "Updated JD: "+jd.Title)

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"id":      jdID.String(),
		"message": fmt.Sprintf("JD '%s' updated!", jd.Title),
	})
}

func (s *Server) handleDeleteJD(w http.ResponseWriter, r *http.Request) {
	jdID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JD ID")
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

	if _, err := s.db.DeleteJD(r.Context(), jdID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r.Context(), activity.ActionJDDeleted, "jd", jdID, "Deleted JD: "+jd.Title)

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("JD '%s' and all its candidates deleted.", jd.Title),
	})
}
