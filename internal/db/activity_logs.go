package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LogActivity appends an audit record. Failures are returned but callers
// generally log and continue; an audit miss never fails the operation it
// records.
func (db *DB) LogActivity(ctx context.Context, action, entityType string, entityID uuid.UUID, details string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO activity_logs (action, entity_type, entity_id, details)
		 VALUES ($1, $2, $3, $4)`,
		action, entityType, entityID, details,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// RecentActivity retrieves the newest log entries, up to limit.
func (db *DB) RecentActivity(ctx context.Context, limit int) ([]ActivityLogEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, action, entity_type, entity_id, details, created_at
		 FROM activity_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityLogEntry
	for rows.Next() {
		var e ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ActivityBetween retrieves log entries in [from, to), oldest first.
func (db *DB) ActivityBetween(ctx context.Context, from, to time.Time) ([]ActivityLogEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, action, entity_type, entity_id, details, created_at
		 FROM activity_logs
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityLogEntry
	for rows.Next() {
		var e ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountActivityBetween counts log entries in [from, to).
func (db *DB) CountActivityBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_logs WHERE created_at >= $1 AND created_at < $2`,
		from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return count, nil
}
