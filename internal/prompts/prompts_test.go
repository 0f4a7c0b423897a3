package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResumeAnalysis_EmbedsInputsAndShape(t *testing.T) {
	p := ResumeAnalysis("Senior Go Engineer\nBuild services.", "Jane Doe\n10 years of Go.")

	assert.Contains(t, p.System, "HR analyst")
	assert.Contains(t, p.User, "Senior Go Engineer")
	assert.Contains(t, p.User, "Jane Doe")

	// The declared shape must name every contract field.
	for _, field := range []string{
		"candidate_name", "candidate_email", "candidate_phone", "current_role",
		"experience_years", "overall_match_score", "star_rating", "overall_summary",
		"strengths", "gaps", "matched_skills", "missing_skills",
		"experience_analysis", "recommendation", "culture_fit_notes",
		"red_flags", "suggested_interview_questions",
	} {
		assert.Contains(t, p.User, `"`+field+`"`)
	}
}

func TestJDGeneration_EmbedsInputs(t *testing.T) {
	p := JDGeneration("Backend Engineer", "Platform", "Own the billing pipeline", "Senior")

	assert.Contains(t, p.User, "Backend Engineer")
	assert.Contains(t, p.User, "Platform")
	assert.Contains(t, p.User, "Own the billing pipeline")
	assert.Contains(t, p.User, "Senior")
	assert.Contains(t, p.User, `"salary_suggestion"`)
}

func TestEmail_TypeInstructions(t *testing.T) {
	tests := []struct {
		templateType string
		wantPhrase   string
	}{
		{"rejection", "rejection email"},
		{"interview_invite", "interview invitation"},
		{"offer", "offer email"},
		{"follow_up", "follow-up email"},
		{"custom", "this context"},
		{"something_unknown", "this context"}, // unrecognized falls back to custom
	}

	for _, tt := range tests {
		t.Run(tt.templateType, func(t *testing.T) {
			p := Email(tt.templateType, "Jane", "Backend Engineer", "Initech", "notes")
			assert.Contains(t, p.User, tt.wantPhrase)
			assert.Contains(t, p.User, "Candidate: Jane")
			assert.Contains(t, p.User, "Company: Initech")
		})
	}
}

func TestComparison_NumbersCandidates(t *testing.T) {
	p := Comparison([]CandidateSummary{
		{Name: "Jane", MatchScore: 88, Strengths: []string{"Go", "SQL"}, ExperienceYears: 7},
		{Name: "John", MatchScore: 61, Gaps: []string{"Kubernetes"}, ExperienceYears: 3},
	}, "Backend Engineer JD")

	assert.Contains(t, p.User, "CANDIDATE 1: Jane")
	assert.Contains(t, p.User, "CANDIDATE 2: John")
	assert.Contains(t, p.User, "Score: 88/100")
	assert.Contains(t, p.User, "Gaps: Kubernetes")
	assert.Contains(t, p.User, `"hiring_recommendation"`)
	assert.True(t, strings.Index(p.User, "CANDIDATE 1") < strings.Index(p.User, "CANDIDATE 2"))
}

func TestChat_CarriesLiveContext(t *testing.T) {
	p := Chat("Who are my top candidates?", "3 active JDs, 12 candidates", "")

	assert.Equal(t, "Who are my top candidates?", p.User)
	assert.Contains(t, p.System, "3 active JDs, 12 candidates")
}
