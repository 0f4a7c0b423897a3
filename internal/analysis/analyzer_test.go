package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-screener/internal/llm"
	"github.com/jonathan/talent-screener/internal/prompts"
)

// fakeClient returns a canned response (or error) and records the last
// request it saw.
type fakeClient struct {
	response string
	err      error
	lastReq  llm.Request
}

func (f *fakeClient) Generate(_ context.Context, req llm.Request) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Close() error { return nil }

func TestAnalyzeResume_FullResponse(t *testing.T) {
	client := &fakeClient{response: `{
		"candidate_name": "Jane Doe",
		"candidate_email": "jane@example.com",
		"candidate_phone": "555-0101",
		"current_role": "Staff Engineer",
		"experience_years": 9,
		"overall_match_score": 87,
		"star_rating": 4.5,
		"overall_summary": "Strong match.",
		"strengths": ["Go", "Distributed systems"],
		"gaps": ["Kubernetes"],
		"matched_skills": ["Go", "SQL"],
		"missing_skills": ["Terraform"],
		"experience_analysis": "Very relevant.",
		"recommendation": "HIGHLY RECOMMENDED",
		"culture_fit_notes": "Collaborative.",
		"red_flags": [],
		"suggested_interview_questions": ["Tell me about a hard bug."]
	}`}

	result := NewAnalyzer(client).AnalyzeResume(context.Background(), "jd", "resume")

	assert.Equal(t, "Jane Doe", result.CandidateName)
	assert.Equal(t, 87.0, result.OverallMatchScore)
	assert.Equal(t, 4.5, result.StarRating)
	assert.Equal(t, []string{"Go", "Distributed systems"}, result.Strengths)
	assert.Equal(t, "HIGHLY RECOMMENDED", result.Recommendation)
	assert.InDelta(t, 0.2, client.lastReq.Temperature, 0.001)
}

func TestAnalyzeResume_PartialResponseBackfilled(t *testing.T) {
	client := &fakeClient{response: `{"candidate_name": "John Roe", "overall_match_score": 55}`}

	result := NewAnalyzer(client).AnalyzeResume(context.Background(), "jd", "resume")

	assert.Equal(t, "John Roe", result.CandidateName)
	assert.Equal(t, 55.0, result.OverallMatchScore)
	// Missing fields take the contract defaults.
	assert.Equal(t, 1.0, result.StarRating)
	assert.Equal(t, "PENDING", result.Recommendation)
	assert.Equal(t, []string{}, result.Strengths)
	assert.Equal(t, "Analysis completed.", result.OverallSummary)
}

func TestAnalyzeResume_FencedResponse(t *testing.T) {
	client := &fakeClient{response: "Here you go:\n```json\n{\"candidate_name\": \"Jane\", \"overall_match_score\": 70}\n```"}

	result := NewAnalyzer(client).AnalyzeResume(context.Background(), "jd", "resume")
	assert.Equal(t, "Jane", result.CandidateName)
	assert.Equal(t, 70.0, result.OverallMatchScore)
}

func TestAnalyzeResume_TypeDriftClamped(t *testing.T) {
	client := &fakeClient{response: `{
		"candidate_name": "Jane",
		"overall_match_score": "high",
		"star_rating": 12,
		"experience_years": "7.5",
		"strengths": ["Go", 42, "SQL"]
	}`}

	result := NewAnalyzer(client).AnalyzeResume(context.Background(), "jd", "resume")

	// Non-numeric score falls back to the zero default; out-of-range
	// values are clamped; numeric strings are accepted.
	assert.Equal(t, 0.0, result.OverallMatchScore)
	assert.Equal(t, 5.0, result.StarRating)
	assert.Equal(t, 7.5, result.ExperienceYears)
	assert.Equal(t, []string{"Go", "SQL"}, result.Strengths)
}

func TestAnalyzeResume_NetworkFailureFallback(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("connection refused")}

	result := NewAnalyzer(client).AnalyzeResume(context.Background(), "jd", "resume")

	assert.Equal(t, "Unknown Candidate", result.CandidateName)
	assert.Equal(t, 0.0, result.OverallMatchScore)
	assert.Equal(t, 1.0, result.StarRating)
	assert.Equal(t, "ERROR", result.Recommendation)
	assert.Contains(t, result.OverallSummary, "connection refused")
	assert.NotNil(t, result.Strengths)
	assert.NotNil(t, result.SuggestedInterviewQuestions)
}

func TestAnalyzeResume_UnparsableResponseFallback(t *testing.T) {
	client := &fakeClient{response: "I am sorry, I cannot help with that."}

	result := NewAnalyzer(client).AnalyzeResume(context.Background(), "jd", "resume")

	assert.Equal(t, "ERROR", result.Recommendation)
	assert.NotEmpty(t, result.OverallSummary)
}

func TestGenerateJD(t *testing.T) {
	client := &fakeClient{response: `{
		"title": "Senior Backend Engineer",
		"description": "A great role.",
		"requirements": "- Go\n- SQL",
		"nice_to_have": "- Kubernetes",
		"salary_suggestion": "$150k-$180k"
	}`}

	jd := NewAnalyzer(client).GenerateJD(context.Background(), "Backend Engineer", "Platform", "billing", "Senior")

	assert.Equal(t, "Senior Backend Engineer", jd.Title)
	assert.Equal(t, "$150k-$180k", jd.SalarySuggestion)
}

func TestGenerateJD_FailureFallbackEchoesTitle(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("timeout")}

	jd := NewAnalyzer(client).GenerateJD(context.Background(), "Backend Engineer", "Platform", "billing", "Senior")

	assert.Equal(t, "Backend Engineer", jd.Title)
	assert.Contains(t, jd.Description, "timeout")
}

func TestGenerateEmail(t *testing.T) {
	client := &fakeClient{response: `{"subject": "Interview invitation", "body": "Dear Jane, ..."}`}

	email := NewAnalyzer(client).GenerateEmail(context.Background(), "interview_invite", "Jane", "Backend Engineer", "Initech", "")

	assert.Equal(t, "Interview invitation", email.Subject)
	assert.Contains(t, email.Body, "Dear Jane")
}

func TestGenerateEmail_FailureFallback(t *testing.T) {
	client := &fakeClient{response: "no json here"}

	email := NewAnalyzer(client).GenerateEmail(context.Background(), "offer", "Jane", "Backend Engineer", "Initech", "")

	assert.Equal(t, "Regarding Backend Engineer position", email.Subject)
	assert.Contains(t, email.Body, "Error generating email")
}

func TestCompareCandidates(t *testing.T) {
	client := &fakeClient{response: `{
		"ranking": [
			{"name": "Jane", "rank": 1, "reason": "Best skill match"},
			{"name": "John", "rank": 2, "reason": "Less experience"}
		],
		"comparison_summary": "Jane leads.",
		"hiring_recommendation": "Call Jane first."
	}`}

	result := NewAnalyzer(client).CompareCandidates(context.Background(), []prompts.CandidateSummary{
		{Name: "Jane", MatchScore: 88},
		{Name: "John", MatchScore: 61},
	}, "jd text")

	require.Len(t, result.Ranking, 2)
	assert.Equal(t, "Jane", result.Ranking[0].Name)
	assert.Equal(t, 1, result.Ranking[0].Rank)
	assert.Equal(t, "Call Jane first.", result.HiringRecommendation)
}

func TestCompareCandidates_FailureFallback(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("rate limited")}

	result := NewAnalyzer(client).CompareCandidates(context.Background(), nil, "jd")

	assert.Empty(t, result.Ranking)
	assert.NotNil(t, result.Ranking)
	assert.Contains(t, result.ComparisonSummary, "rate limited")
}

func TestChat(t *testing.T) {
	client := &fakeClient{response: "Your top candidate is Jane."}

	reply := NewAnalyzer(client).Chat(context.Background(), "who is my top candidate?", "12 candidates", "")
	assert.Equal(t, "Your top candidate is Jane.", reply)

	client.err = fmt.Errorf("boom")
	reply = NewAnalyzer(client).Chat(context.Background(), "hello", "", "")
	assert.Contains(t, reply, "boom")
}
