package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobDescription is a role posting candidates are screened against.
// CandidateCount, ShortlistedCount, and AvgScore are aggregates filled
// in by list/get queries, not stored columns.
type JobDescription struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Department      string    `json:"department"`
	Location        string    `json:"location"`
	EmploymentType  string    `json:"employment_type"`
	ExperienceLevel string    `json:"experience_level"`
	SalaryRange     string    `json:"salary_range"`
	Description     string    `json:"description"`
	Requirements    string    `json:"requirements"`
	NiceToHave      string    `json:"nice_to_have"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	CandidateCount   int     `json:"candidate_count"`
	ShortlistedCount int     `json:"shortlisted_count"`
	AvgScore         float64 `json:"avg_score"`
}

// FullText renders the JD as the text block fed into analysis prompts.
func (jd *JobDescription) FullText() string {
	return fmt.Sprintf("%s\n\n%s\n\nRequirements:\n%s\n\nNice to have:\n%s",
		jd.Title, jd.Description, jd.Requirements, jd.NiceToHave)
}

// Candidate is one screened resume. List fields round-trip through JSONB
// columns. JDTitle is joined in by queries.
type Candidate struct {
	ID                 uuid.UUID  `json:"id"`
	JDID               uuid.UUID  `json:"jd_id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	CurrentRole        string     `json:"current_role"`
	ExperienceYears    float64    `json:"experience_years"`
	ResumeFilename     string     `json:"resume_filename"`
	ResumeText         string     `json:"resume_text,omitempty"`
	MatchScore         float64    `json:"match_score"`
	StarRating         float64    `json:"star_rating"`
	Recommendation     string     `json:"recommendation"`
	OverallSummary     string     `json:"overall_summary"`
	Strengths          []string   `json:"strengths"`
	Gaps               []string   `json:"gaps"`
	MatchedSkills      []string   `json:"matched_skills"`
	MissingSkills      []string   `json:"missing_skills"`
	ExperienceAnalysis string     `json:"experience_analysis"`
	Status             string     `json:"status"`
	HRNotes            string     `json:"hr_notes"`
	InterviewDate      *time.Time `json:"interview_date,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	AnalyzedAt         time.Time  `json:"analyzed_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	JDTitle string `json:"jd_title,omitempty"`
}

// ActivityLogEntry is one append-only audit record. Entries are never
// updated or deleted by the application.
type ActivityLogEntry struct {
	ID         uuid.UUID `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmailTemplate is a saved email for quick reuse.
type EmailTemplate struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TemplateType  string    `json:"template_type"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	CreatedAt     time.Time `json:"created_at"`
}
