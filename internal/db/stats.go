package db

import (
	"context"
	"fmt"
	"time"
)

// ScoreBucket is one bar of the dashboard score histogram.
type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// DashboardStats aggregates the pipeline for the overview screen.
type DashboardStats struct {
	TotalJDs             int            `json:"total_jds"`
	ActiveJDs            int            `json:"active_jds"`
	TotalCandidates      int            `json:"total_candidates"`
	StatusCounts         map[string]int `json:"status_counts"`
	AvgScore             float64        `json:"avg_score"`
	MaxScore             float64        `json:"max_score"`
	MinScore             float64        `json:"min_score"`
	RecommendationCounts map[string]int `json:"recommendation_counts"`
	TopCandidatesCount   int            `json:"top_candidates_count"`
	TodayAnalyzed        int            `json:"today_analyzed"`
	ScoreDistribution    []ScoreBucket  `json:"score_distribution"`
}

// scoreBucketLabels are the histogram ranges, lowest first.
var scoreBucketLabels = []string{"0-20", "21-40", "41-60", "61-80", "81-100"}

func bucketIndex(score float64) int {
	switch {
	case score <= 20:
		return 0
	case score <= 40:
		return 1
	case score <= 60:
		return 2
	case score <= 80:
		return 3
	default:
		return 4
	}
}

// GetDashboardStats computes the dashboard aggregates. "Today" is the
// UTC midnight boundary of now. The histogram is bucketed in Go from a
// single score scan rather than five range queries.
func (db *DB) GetDashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{
		StatusCounts:         map[string]int{},
		RecommendationCounts: map[string]int{},
	}

	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active') FROM job_descriptions`,
	).Scan(&stats.TotalJDs, &stats.ActiveJDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count job descriptions: %w", err)
	}

	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(match_score), 0),
		        COALESCE(MAX(match_score), 0),
		        COALESCE(MIN(match_score), 0),
		        COUNT(*) FILTER (WHERE match_score >= 70),
		        COUNT(*) FILTER (WHERE analyzed_at >= $1)
		 FROM candidates`,
		dayStart,
	).Scan(&stats.TotalCandidates, &stats.AvgScore, &stats.MaxScore, &stats.MinScore,
		&stats.TopCandidatesCount, &stats.TodayAnalyzed)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate candidates: %w", err)
	}

	if err := db.countGroups(ctx, "status", stats.StatusCounts); err != nil {
		return nil, err
	}
	if err := db.countGroups(ctx, "recommendation", stats.RecommendationCounts); err != nil {
		return nil, err
	}

	buckets := make([]int, len(scoreBucketLabels))
	rows, err := db.pool.Query(ctx, `SELECT match_score FROM candidates`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		buckets[bucketIndex(score)]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, label := range scoreBucketLabels {
		stats.ScoreDistribution = append(stats.ScoreDistribution, ScoreBucket{Range: label, Count: buckets[i]})
	}

	return stats, nil
}

// countGroups fills counts with COUNT(*) grouped by the given candidates
// column. The column name comes from call sites, never from input.
func (db *DB) countGroups(ctx context.Context, column string, counts map[string]int) error {
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s, COUNT(*) FROM candidates GROUP BY %s`, column, column),
	)
	if err != nil {
		return fmt.Errorf("failed to group candidates by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan %s group: %w", column, err)
		}
		counts[key] = count
	}
	return rows.Err()
}

// PipelineSnapshot is the live context handed to the chat assistant.
type PipelineSnapshot struct {
	ActiveJDs       int
	TotalCandidates int
	Shortlisted     int
	Hired           int
	Recent          []Candidate
}

// GetPipelineSnapshot collects headline counts plus the most recently
// analyzed candidates.
func (db *DB) GetPipelineSnapshot(ctx context.Context, recentLimit int) (*PipelineSnapshot, error) {
	snap := &PipelineSnapshot{}

	err := db.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM job_descriptions WHERE status = 'active'),
		   COUNT(*),
		   COUNT(*) FILTER (WHERE status = 'shortlisted'),
		   COUNT(*) FILTER (WHERE status = 'hired')
		 FROM candidates`,
	).Scan(&snap.ActiveJDs, &snap.TotalCandidates, &snap.Shortlisted, &snap.Hired)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot pipeline: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT`+candidateSelectColumns+`
		 FROM candidates c
		 JOIN job_descriptions jd ON jd.id = c.jd_id
		 ORDER BY c.analyzed_at DESC
		 LIMIT $1`,
		recentLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent candidates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		snap.Recent = append(snap.Recent, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snap, nil
}

// Totals holds all-time counts for the productivity tracker.
type Totals struct {
	Actions    int `json:"total_actions"`
	Candidates int `json:"total_candidates"`
	JDs        int `json:"total_jds"`
}

// GetTotals returns all-time row counts across the three busiest tables.
func (db *DB) GetTotals(ctx context.Context) (Totals, error) {
	var t Totals
	err := db.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM activity_logs),
		   (SELECT COUNT(*) FROM candidates),
		   (SELECT COUNT(*) FROM job_descriptions)`,
	).Scan(&t.Actions, &t.Candidates, &t.JDs)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to count totals: %w", err)
	}
	return t, nil
}
