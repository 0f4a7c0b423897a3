package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateJDParams holds the fields for creating a job description. Empty
// strings fall through to the column defaults for everything except
// title and description.
type CreateJDParams struct {
	Title           string
	Department      string
	Location        string
	EmploymentType  string
	ExperienceLevel string
	SalaryRange     string
	Description     string
	Requirements    string
	NiceToHave      string
}

// CreateJD inserts a job description and returns its ID.
func (db *DB) CreateJD(ctx context.Context, p CreateJDParams) (uuid.UUID, error) {
	applyJDDefaults(&p)

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions
		   (title, department, location, employment_type, experience_level,
		    salary_range, description, requirements, nice_to_have)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		p.Title, p.Department, p.Location, p.EmploymentType, p.ExperienceLevel,
		p.SalaryRange, p.Description, p.Requirements, p.NiceToHave,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job description: %w", err)
	}
	return id, nil
}

func applyJDDefaults(p *CreateJDParams) {
	if p.Department == "" {
		p.Department = "Engineering"
	}
	if p.Location == "" {
		p.Location = "Remote"
	}
	if p.EmploymentType == "" {
		p.EmploymentType = "Full-time"
	}
	if p.ExperienceLevel == "" {
		p.ExperienceLevel = "Mid-level"
	}
}

const jdSelectColumns = `
	jd.id, jd.title, jd.department, jd.location, jd.employment_type,
	jd.experience_level, jd.salary_range, jd.description, jd.requirements,
	jd.nice_to_have, jd.status, jd.created_at, jd.updated_at,
	COUNT(c.id),
	COUNT(c.id) FILTER (WHERE c.status = 'shortlisted'),
	COALESCE(AVG(c.match_score), 0)`

func scanJD(row pgx.Row) (*JobDescription, error) {
	var jd JobDescription
	err := row.Scan(&jd.ID, &jd.Title, &jd.Department, &jd.Location,
		&jd.EmploymentType, &jd.ExperienceLevel, &jd.SalaryRange,
		&jd.Description, &jd.Requirements, &jd.NiceToHave, &jd.Status,
		&jd.CreatedAt, &jd.UpdatedAt,
		&jd.CandidateCount, &jd.ShortlistedCount, &jd.AvgScore)
	if err != nil {
		return nil, err
	}
	return &jd, nil
}

// GetJD retrieves one job description with candidate aggregates.
// Returns nil when not found.
func (db *DB) GetJD(ctx context.Context, id uuid.UUID) (*JobDescription, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT`+jdSelectColumns+`
		 FROM job_descriptions jd
		 LEFT JOIN candidates c ON c.jd_id = jd.id
		 WHERE jd.id = $1
		 GROUP BY jd.id`,
		id,
	)
	jd, err := scanJD(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	return jd, nil
}

// ListJDs retrieves job descriptions newest-first, optionally filtered by
// lifecycle status, with candidate aggregates per JD.
func (db *DB) ListJDs(ctx context.Context, status string) ([]JobDescription, error) {
	query := `SELECT` + jdSelectColumns + `
		FROM job_descriptions jd
		LEFT JOIN candidates c ON c.jd_id = jd.id`
	args := []any{}
	if status != "" {
		query += ` WHERE jd.status = $1`
		args = append(args, status)
	}
	query += ` GROUP BY jd.id ORDER BY jd.created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	defer rows.Close()

	var jds []JobDescription
	for rows.Next() {
		jd, err := scanJD(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job description: %w", err)
		}
		jds = append(jds, *jd)
	}
	return jds, rows.Err()
}

// UpdateJDParams holds the optional fields of a JD update; nil pointers
// leave the stored value untouched.
type UpdateJDParams struct {
	Title           *string `json:"title"`
	Department      *string `json:"department"`
	Location        *string `json:"location"`
	EmploymentType  *string `json:"employment_type"`
	ExperienceLevel *string `json:"experience_level"`
	SalaryRange     *string `json:"salary_range"`
	Description     *string `json:"description"`
	Requirements    *string `json:"requirements"`
	NiceToHave      *string `json:"nice_to_have"`
	Status          *string `json:"status"`
}

// UpdateJD applies a partial update. Returns false when the JD does not
// exist.
func (db *DB) UpdateJD(ctx context.Context, id uuid.UUID, p UpdateJDParams) (bool, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	addSet := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	addSet("title", p.Title)
	addSet("department", p.Department)
	addSet("location", p.Location)
	addSet("employment_type", p.EmploymentType)
	addSet("experience_level", p.ExperienceLevel)
	addSet("salary_range", p.SalaryRange)
	addSet("description", p.Description)
	addSet("requirements", p.Requirements)
	addSet("nice_to_have", p.NiceToHave)
	addSet("status", p.Status)

	query := "UPDATE job_descriptions SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update job description: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteJD removes a job description; its candidates go with it via the
// foreign-key cascade. Returns false when the JD does not exist.
func (db *DB) DeleteJD(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_descriptions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job description: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
