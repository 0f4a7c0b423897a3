package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/talent-screener/internal/activity"
	"github.com/jonathan/talent-screener/internal/db"
)

// ---------------------------------------------------------------------
// Email Handlers
// ---------------------------------------------------------------------

type GenerateEmailRequest struct {
	TemplateType  string `json:"template_type" validate:"required"`
	CandidateID   string `json:"candidate_id" validate:"omitempty,uuid"`
	CandidateName string `json:"candidate_name"`
	JobTitle      string `json:"job_title"`
	CompanyName   string `json:"company_name"`
	ExtraContext  string `json:"extra_context"`
}

// handleGenerateEmail drafts one HR email with AI. When candidate_id is
// given, name and job title are pulled from the stored candidate.
func (s *Server) handleGenerateEmail(w http.ResponseWriter, r *http.Request) {
	var req GenerateEmailRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	candidateName := req.CandidateName
	jobTitle := req.JobTitle

	var entityID uuid.UUID
	if req.CandidateID != "" {
		id, err := uuid.Parse(req.CandidateID)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid candidate_id")
			return
		}
		candidate, err := s.db.GetCandidate(r.Context(), id)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if candidate != nil {
			entityID = candidate.ID
			candidateName = candidate.Name
			jobTitle = candidate.JDTitle
		}
	}

	result := s.analyzer.GenerateEmail(r.Context(), req.TemplateType, candidateName, jobTitle, req.CompanyName, req.ExtraContext)

	s.logActivity(r.Context(), activity.ActionEmailGenerated, "email", entityID,
		"Generated "+req.TemplateType+" email for "+candidateName)

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"subject":        result.Subject,
		"body":           result.Body,
		"template_type":  req.TemplateType,
		"candidate_name": candidateName,
	})
}

type SaveTemplateRequest struct {
	Name         string `json:"name" validate:"required"`
	TemplateType string `json:"template_type" validate:"required"`
	Subject      string `json:"subject"`
	Body         string `json:"body" validate:"required"`
}

func (s *Server) handleSaveEmailTemplate(w http.ResponseWriter, r *http.Request) {
	var req SaveTemplateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := s.db.SaveEmailTemplate(r.Context(), db.SaveEmailTemplateParams{
		Name:          req.Name,
		TemplateType:  req.TemplateType,
		Subject:       req.Subject,
		Body:          req.Body,
		IsAIGenerated: true,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r.Context(), activity.ActionTemplateSaved, "email", id, "Saved template: "+req.Name)

	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"id":      id.String(),
		"message": "Template '" + req.Name + "' saved!",
	})
}

func (s *Server) handleListEmailTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.db.ListEmailTemplates(r.Context(), r.URL.Query().Get("template_type"))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if templates == nil {
		templates = []db.EmailTemplate{}
	}

	s.jsonResponse(w, http.StatusOK, templates)
}

func (s *Server) handleDeleteEmailTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	found, err := s.db.DeleteEmailTemplate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !found {
		s.errorResponse(w, http.StatusNotFound, "Template not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Template deleted."})
}
