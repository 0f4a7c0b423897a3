package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateCandidateParams holds a new candidate row. The list fields are
// marshaled into JSONB columns.
type CreateCandidateParams struct {
	JDID               uuid.UUID
	Name               string
	Email              string
	Phone              string
	CurrentRole        string
	ExperienceYears    float64
	ResumeFilename     string
	ResumeText         string
	MatchScore         float64
	StarRating         float64
	Recommendation     string
	OverallSummary     string
	Strengths          []string
	Gaps               []string
	MatchedSkills      []string
	MissingSkills      []string
	ExperienceAnalysis string
}

func marshalList(list []string) []byte {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(list)
	return data
}

// CreateCandidate inserts a candidate and returns its ID. The jd_id must
// reference an existing job description; violations surface as errors.
func (db *DB) CreateCandidate(ctx context.Context, p CreateCandidateParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates
		   (jd_id, name, email, phone, role_title, experience_years,
		    resume_filename, resume_text, match_score, star_rating,
		    recommendation, overall_summary, strengths, gaps,
		    matched_skills, missing_skills, experience_analysis)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING id`,
		p.JDID, p.Name, p.Email, p.Phone, p.CurrentRole, p.ExperienceYears,
		p.ResumeFilename, p.ResumeText, p.MatchScore, p.StarRating,
		p.Recommendation, p.OverallSummary, marshalList(p.Strengths),
		marshalList(p.Gaps), marshalList(p.MatchedSkills),
		marshalList(p.MissingSkills), p.ExperienceAnalysis,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return id, nil
}

const candidateSelectColumns = `
	c.id, c.jd_id, c.name, c.email, c.phone, c.role_title,
	c.experience_years, c.resume_filename, c.match_score, c.star_rating,
	c.recommendation, c.overall_summary, c.strengths, c.gaps,
	c.matched_skills, c.missing_skills, c.experience_analysis, c.status,
	c.hr_notes, c.interview_date, c.rejection_reason, c.analyzed_at,
	c.updated_at, jd.title`

func scanCandidate(row pgx.Row) (*Candidate, error) {
	var c Candidate
	var strengths, gaps, matched, missing []byte
	err := row.Scan(&c.ID, &c.JDID, &c.Name, &c.Email, &c.Phone,
		&c.CurrentRole, &c.ExperienceYears, &c.ResumeFilename,
		&c.MatchScore, &c.StarRating, &c.Recommendation, &c.OverallSummary,
		&strengths, &gaps, &matched, &missing, &c.ExperienceAnalysis,
		&c.Status, &c.HRNotes, &c.InterviewDate, &c.RejectionReason,
		&c.AnalyzedAt, &c.UpdatedAt, &c.JDTitle)
	if err != nil {
		return nil, err
	}
	c.Strengths = unmarshalList(strengths)
	c.Gaps = unmarshalList(gaps)
	c.MatchedSkills = unmarshalList(matched)
	c.MissingSkills = unmarshalList(missing)
	return &c, nil
}

func unmarshalList(data []byte) []string {
	list := []string{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &list)
	}
	return list
}

// GetCandidate retrieves one candidate with its JD title. Returns nil
// when not found.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT`+candidateSelectColumns+`
		 FROM candidates c
		 JOIN job_descriptions jd ON jd.id = c.jd_id
		 WHERE c.id = $1`,
		id,
	)
	c, err := scanCandidate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// CandidateFilters narrows and orders a candidate listing.
type CandidateFilters struct {
	JDID           uuid.UUID
	Status         string
	MinScore       *float64
	MaxScore       *float64
	Recommendation string
	Search         string // case-insensitive substring over name/email/role
	SortBy         string
	SortOrder      string
}

// sortColumns whitelists sortable columns; anything else falls back to
// analyzed_at.
var sortColumns = map[string]string{
	"analyzed_at":      "c.analyzed_at",
	"updated_at":       "c.updated_at",
	"match_score":      "c.match_score",
	"star_rating":      "c.star_rating",
	"name":             "c.name",
	"experience_years": "c.experience_years",
	"status":           "c.status",
}

// buildCandidateQuery renders the filtered listing query. Split out so
// the WHERE/ORDER BY construction is testable without a database.
func buildCandidateQuery(f CandidateFilters) (string, []any) {
	query := `SELECT` + candidateSelectColumns + `
		FROM candidates c
		JOIN job_descriptions jd ON jd.id = c.jd_id
		WHERE 1=1`
	args := []any{}

	if f.JDID != uuid.Nil {
		args = append(args, f.JDID)
		query += fmt.Sprintf(" AND c.jd_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND c.status = $%d", len(args))
	}
	if f.MinScore != nil {
		args = append(args, *f.MinScore)
		query += fmt.Sprintf(" AND c.match_score >= $%d", len(args))
	}
	if f.MaxScore != nil {
		args = append(args, *f.MaxScore)
		query += fmt.Sprintf(" AND c.match_score <= $%d", len(args))
	}
	if f.Recommendation != "" {
		args = append(args, f.Recommendation)
		query += fmt.Sprintf(" AND c.recommendation = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.email ILIKE $%d OR c.role_title ILIKE $%d)", n, n, n)
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "c.analyzed_at"
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	return query, args
}

// ListCandidates retrieves candidates matching the filters. Default
// order is most-recently-analyzed first.
func (db *DB) ListCandidates(ctx context.Context, f CandidateFilters) ([]Candidate, error) {
	query, args := buildCandidateQuery(f)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

// GetCandidatesByIDs retrieves the candidates with the given IDs.
func (db *DB) GetCandidatesByIDs(ctx context.Context, ids []uuid.UUID) ([]Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT`+candidateSelectColumns+`
		 FROM candidates c
		 JOIN job_descriptions jd ON jd.id = c.jd_id
		 WHERE c.id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

// UpdateCandidateStatus moves a candidate through the pipeline. Returns
// the previous status, or false when the candidate does not exist.
func (db *DB) UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status string) (string, bool, error) {
	var oldStatus string
	err := db.pool.QueryRow(ctx,
		`UPDATE candidates c SET status = $2, updated_at = now()
		 FROM candidates old
		 WHERE c.id = $1 AND old.id = c.id
		 RETURNING old.status`,
		id, status,
	).Scan(&oldStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to update candidate status: %w", err)
	}
	return oldStatus, true, nil
}

// UpdateCandidateNotes replaces the HR notes. Returns false when the
// candidate does not exist.
func (db *DB) UpdateCandidateNotes(ctx context.Context, id uuid.UUID, notes string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE candidates SET hr_notes = $2, updated_at = now() WHERE id = $1`,
		id, notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update candidate notes: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteCandidate removes a candidate. Returns false when it does not
// exist.
func (db *DB) DeleteCandidate(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete candidate: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ExportCandidates retrieves candidates for CSV export, sorted by
// descending match score, optionally limited to one JD.
func (db *DB) ExportCandidates(ctx context.Context, jdID uuid.UUID) ([]Candidate, error) {
	filters := CandidateFilters{JDID: jdID, SortBy: "match_score", SortOrder: "desc"}
	return db.ListCandidates(ctx, filters)
}

// TopCandidates retrieves the highest-scoring candidates across all JDs.
func (db *DB) TopCandidates(ctx context.Context, limit int) ([]Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT`+candidateSelectColumns+`
		 FROM candidates c
		 JOIN job_descriptions jd ON jd.id = c.jd_id
		 ORDER BY c.match_score DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list top candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}
