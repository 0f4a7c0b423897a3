package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveEmailTemplateParams holds a template to persist.
type SaveEmailTemplateParams struct {
	Name          string
	TemplateType  string
	Subject       string
	Body          string
	IsAIGenerated bool
}

// SaveEmailTemplate stores a template and returns its ID.
func (db *DB) SaveEmailTemplate(ctx context.Context, p SaveEmailTemplateParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO email_templates (name, template_type, subject, body, is_ai_generated)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.Name, p.TemplateType, p.Subject, p.Body, p.IsAIGenerated,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save email template: %w", err)
	}
	return id, nil
}

// GetEmailTemplate retrieves one template. Returns nil when not found.
func (db *DB) GetEmailTemplate(ctx context.Context, id uuid.UUID) (*EmailTemplate, error) {
	var t EmailTemplate
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, template_type, subject, body, is_ai_generated, created_at
		 FROM email_templates
		 WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.TemplateType, &t.Subject, &t.Body, &t.IsAIGenerated, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}
	return &t, nil
}

// ListEmailTemplates retrieves all templates newest-first, optionally
// filtered by template type.
func (db *DB) ListEmailTemplates(ctx context.Context, templateType string) ([]EmailTemplate, error) {
	query := `SELECT id, name, template_type, subject, body, is_ai_generated, created_at
		FROM email_templates`
	args := []any{}
	if templateType != "" {
		query += ` WHERE template_type = $1`
		args = append(args, templateType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}
	defer rows.Close()

	var templates []EmailTemplate
	for rows.Next() {
		var t EmailTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.TemplateType, &t.Subject, &t.Body, &t.IsAIGenerated, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan email template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// DeleteEmailTemplate removes a template. Returns false when it does not
// exist.
func (db *DB) DeleteEmailTemplate(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete email template: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
