package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildCandidateQuery_NoFilters(t *testing.T) {
	query, args := buildCandidateQuery(CandidateFilters{})

	assert.Empty(t, args)
	assert.Contains(t, query, "WHERE 1=1")
	assert.Contains(t, query, "ORDER BY c.analyzed_at DESC")
	assert.NotContains(t, query, "$1")
}

func TestBuildCandidateQuery_AllFilters(t *testing.T) {
	minScore := 50.0
	maxScore := 90.0
	jdID := uuid.New()
	query, args := buildCandidateQuery(CandidateFilters{
		JDID:           jdID,
		Status:         "shortlisted",
		MinScore:       &minScore,
		MaxScore:       &maxScore,
		Recommendation: "STRONG_MATCH",
		Search:         "alice",
	})

	assert.Equal(t, []any{jdID, "shortlisted", minScore, maxScore, "STRONG_MATCH", "%alice%"}, args)
	assert.Contains(t, query, "c.jd_id = $1")
	assert.Contains(t, query, "c.status = $2")
	assert.Contains(t, query, "c.match_score >= $3")
	assert.Contains(t, query, "c.match_score <= $4")
	assert.Contains(t, query, "c.recommendation = $5")
	assert.Contains(t, query, "c.name ILIKE $6")
	assert.Contains(t, query, "c.email ILIKE $6")
	assert.Contains(t, query, "c.role_title ILIKE $6")
}

func TestBuildCandidateQuery_SortWhitelist(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"score descending", "match_score", "desc", "ORDER BY c.match_score DESC"},
		{"name ascending", "name", "asc", "ORDER BY c.name ASC"},
		{"case insensitive order", "star_rating", "ASC", "ORDER BY c.star_rating ASC"},
		{"unknown column falls back", "resume_text; DROP TABLE candidates", "asc", "ORDER BY c.analyzed_at ASC"},
		{"unknown order falls back", "match_score", "sideways", "ORDER BY c.match_score DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _ := buildCandidateQuery(CandidateFilters{SortBy: tt.sortBy, SortOrder: tt.sortOrder})
			assert.Contains(t, query, tt.want)
		})
	}
}

func TestMarshalList(t *testing.T) {
	assert.Equal(t, "[]", string(marshalList(nil)))
	assert.Equal(t, `["Go","SQL"]`, string(marshalList([]string{"Go", "SQL"})))
}

func TestUnmarshalList(t *testing.T) {
	assert.Equal(t, []string{}, unmarshalList(nil))
	assert.Equal(t, []string{}, unmarshalList([]byte("not json")))
	assert.Equal(t, []string{"Go", "SQL"}, unmarshalList([]byte(`["Go","SQL"]`)))
}

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "0-20"},
		{20, "0-20"},
		{20.5, "21-40"},
		{40, "21-40"},
		{55, "41-60"},
		{61, "61-80"},
		{80, "61-80"},
		{81, "81-100"},
		{100, "81-100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreBucketLabels[bucketIndex(tt.score)], "score %v", tt.score)
	}
}

func TestJobDescriptionFullText(t *testing.T) {
	jd := JobDescription{
		Title:        "Backend Engineer",
		Description:  "Build services.",
		Requirements: "Go, SQL",
		NiceToHave:   "Kubernetes",
	}

	want := "Backend Engineer\n\nBuild services.\n\nRequirements:\nGo, SQL\n\nNice to have:\nKubernetes"
	assert.Equal(t, want, jd.FullText())
}
