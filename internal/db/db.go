// Package db provides PostgreSQL access for job descriptions,
// candidates, the activity log, and email templates.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schema is applied idempotently at startup.
const schema = `
CREATE TABLE IF NOT EXISTS job_descriptions (
	id               uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title            text NOT NULL,
	department       text NOT NULL DEFAULT 'Engineering',
	location         text NOT NULL DEFAULT 'Remote',
	employment_type  text NOT NULL DEFAULT 'Full-time',
	experience_level text NOT NULL DEFAULT 'Mid-level',
	salary_range     text NOT NULL DEFAULT '',
	description      text NOT NULL,
	requirements     text NOT NULL DEFAULT '',
	nice_to_have     text NOT NULL DEFAULT '',
	status           text NOT NULL DEFAULT 'active',
	created_at       timestamptz NOT NULL DEFAULT now(),
	updated_at       timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS candidates (
	id                  uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	jd_id               uuid NOT NULL REFERENCES job_descriptions(id) ON DELETE CASCADE,
	name                text NOT NULL DEFAULT 'Unknown Candidate',
	email               text NOT NULL DEFAULT '',
	phone               text NOT NULL DEFAULT '',
	role_title          text NOT NULL DEFAULT '',
	experience_years    double precision NOT NULL DEFAULT 0,
	resume_filename     text NOT NULL,
	resume_text         text NOT NULL DEFAULT '',
	match_score         double precision NOT NULL DEFAULT 0,
	star_rating         double precision NOT NULL DEFAULT 0,
	recommendation      text NOT NULL DEFAULT 'PENDING',
	overall_summary     text NOT NULL DEFAULT '',
	strengths           jsonb NOT NULL DEFAULT '[]',
	gaps                jsonb NOT NULL DEFAULT '[]',
	matched_skills      jsonb NOT NULL DEFAULT '[]',
	missing_skills      jsonb NOT NULL DEFAULT '[]',
	experience_analysis text NOT NULL DEFAULT '',
	status              text NOT NULL DEFAULT 'new',
	hr_notes            text NOT NULL DEFAULT '',
	interview_date      timestamptz,
	rejection_reason    text NOT NULL DEFAULT '',
	analyzed_at         timestamptz NOT NULL DEFAULT now(),
	updated_at          timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_candidates_jd_id ON candidates (jd_id);
CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates (status);

CREATE TABLE IF NOT EXISTS activity_logs (
	id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	action      text NOT NULL,
	entity_type text NOT NULL,
	entity_id   uuid NOT NULL,
	details     text NOT NULL DEFAULT '',
	created_at  timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs (created_at);

CREATE TABLE IF NOT EXISTS email_templates (
	id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name            text NOT NULL,
	template_type   text NOT NULL,
	subject         text NOT NULL DEFAULT '',
	body            text NOT NULL DEFAULT '',
	is_ai_generated boolean NOT NULL DEFAULT false,
	created_at      timestamptz NOT NULL DEFAULT now()
);
`

// Migrate creates the tables if they do not exist. Safe to run on every
// startup.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
