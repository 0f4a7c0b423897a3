// Package analysis holds the AI-backed screening operations: resume
// analysis, job-description generation, email generation, candidate
// comparison, and the chat assistant. Each operation declares its
// response schema, and each degrades to a complete fallback object on
// any AI failure so callers never see a raw error from the model path.
package analysis

import (
	"context"

	"github.com/jonathan/talent-screener/internal/llm"
	"github.com/jonathan/talent-screener/internal/prompts"
)

// Analyzer runs the AI screening operations against an injected LLM
// client.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates an Analyzer using the given client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// resumeAnalysisSchema declares the resume-analysis contract: every field
// the model must return, with the default backfilled when it is missing.
var resumeAnalysisSchema = llm.Schema{
	"candidate_name":                "Unknown Candidate",
	"candidate_email":               "",
	"candidate_phone":               "",
	"current_role":                  "",
	"experience_years":              0.0,
	"overall_match_score":           0.0,
	"star_rating":                   1.0,
	"overall_summary":               "Analysis completed.",
	"strengths":                     []string{},
	"gaps":                          []string{},
	"matched_skills":                []string{},
	"missing_skills":                []string{},
	"experience_analysis":           "",
	"recommendation":                "PENDING",
	"culture_fit_notes":             "",
	"red_flags":                     []string{},
	"suggested_interview_questions": []string{},
}

// ResumeAnalysis is the strictly-typed result of analyzing one resume.
// Scores are clamped into their documented ranges during coercion.
type ResumeAnalysis struct {
	CandidateName               string   `json:"candidate_name"`
	CandidateEmail              string   `json:"candidate_email"`
	CandidatePhone              string   `json:"candidate_phone"`
	CurrentRole                 string   `json:"current_role"`
	ExperienceYears             float64  `json:"experience_years"`
	OverallMatchScore           float64  `json:"overall_match_score"`
	StarRating                  float64  `json:"star_rating"`
	OverallSummary              string   `json:"overall_summary"`
	Strengths                   []string `json:"strengths"`
	Gaps                        []string `json:"gaps"`
	MatchedSkills               []string `json:"matched_skills"`
	MissingSkills               []string `json:"missing_skills"`
	ExperienceAnalysis          string   `json:"experience_analysis"`
	Recommendation              string   `json:"recommendation"`
	CultureFitNotes             string   `json:"culture_fit_notes"`
	RedFlags                    []string `json:"red_flags"`
	SuggestedInterviewQuestions []string `json:"suggested_interview_questions"`
}

// AnalyzeResume scores a resume against a job description. It never
// returns an error: any network or parse failure produces a complete
// fallback result with the diagnostic embedded in OverallSummary.
func (a *Analyzer) AnalyzeResume(ctx context.Context, jdText, resumeText string) ResumeAnalysis {
	p := prompts.ResumeAnalysis(jdText, resumeText)
	raw, err := a.client.Generate(ctx, llm.Request{
		System:      p.System,
		User:        p.User,
		Temperature: 0.2,
		MaxTokens:   3000,
	})
	if err != nil {
		return resumeAnalysisFallback(err)
	}

	parsed, err := llm.ParseWithSchema(raw, resumeAnalysisSchema)
	if err != nil {
		return resumeAnalysisFallback(err)
	}

	return ResumeAnalysis{
		CandidateName:               toString(parsed["candidate_name"], "Unknown Candidate"),
		CandidateEmail:              toString(parsed["candidate_email"], ""),
		CandidatePhone:              toString(parsed["candidate_phone"], ""),
		CurrentRole:                 toString(parsed["current_role"], ""),
		ExperienceYears:             clamp(toFloat(parsed["experience_years"], 0), 0, 80),
		OverallMatchScore:           clamp(toFloat(parsed["overall_match_score"], 0), 0, 100),
		StarRating:                  clamp(toFloat(parsed["star_rating"], 1.0), 1.0, 5.0),
		OverallSummary:              toString(parsed["overall_summary"], "Analysis completed."),
		Strengths:                   toStringSlice(parsed["strengths"]),
		Gaps:                        toStringSlice(parsed["gaps"]),
		MatchedSkills:               toStringSlice(parsed["matched_skills"]),
		MissingSkills:               toStringSlice(parsed["missing_skills"]),
		ExperienceAnalysis:          toString(parsed["experience_analysis"], ""),
		Recommendation:              toString(parsed["recommendation"], "PENDING"),
		CultureFitNotes:             toString(parsed["culture_fit_notes"], ""),
		RedFlags:                    toStringSlice(parsed["red_flags"]),
		SuggestedInterviewQuestions: toStringSlice(parsed["suggested_interview_questions"]),
	}
}

func resumeAnalysisFallback(err error) ResumeAnalysis {
	return ResumeAnalysis{
		CandidateName:               "Unknown Candidate",
		ExperienceYears:             0,
		OverallMatchScore:           0,
		StarRating:                  1.0,
		OverallSummary:              "Analysis error: " + err.Error(),
		Strengths:                   []string{},
		Gaps:                        []string{},
		MatchedSkills:               []string{},
		MissingSkills:               []string{},
		ExperienceAnalysis:          "Analysis failed",
		Recommendation:              "ERROR",
		RedFlags:                    []string{},
		SuggestedInterviewQuestions: []string{},
	}
}

var jdGenerationSchema = llm.Schema{
	"title":             "",
	"description":       "",
	"requirements":      "",
	"nice_to_have":      "",
	"salary_suggestion": "",
}

// GeneratedJD is the result of AI job-description generation.
type GeneratedJD struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Requirements     string `json:"requirements"`
	NiceToHave       string `json:"nice_to_have"`
	SalarySuggestion string `json:"salary_suggestion"`
}

// GenerateJD produces a job description from minimal inputs. On failure
// the fallback echoes the requested title with the diagnostic in the
// description.
func (a *Analyzer) GenerateJD(ctx context.Context, title, department, brief, experienceLevel string) GeneratedJD {
	p := prompts.JDGeneration(title, department, brief, experienceLevel)
	raw, err := a.client.Generate(ctx, llm.Request{
		System:      p.System,
		User:        p.User,
		Temperature: 0.5,
		MaxTokens:   2000,
	})
	if err == nil {
		var parsed map[string]any
		parsed, err = llm.ParseWithSchema(raw, jdGenerationSchema)
		if err == nil {
			return GeneratedJD{
				Title:            toString(parsed["title"], title),
				Description:      toString(parsed["description"], ""),
				Requirements:     toString(parsed["requirements"], ""),
				NiceToHave:       toString(parsed["nice_to_have"], ""),
				SalarySuggestion: toString(parsed["salary_suggestion"], ""),
			}
		}
	}
	return GeneratedJD{
		Title:       title,
		Description: "Error generating JD: " + err.Error(),
	}
}

var emailSchema = llm.Schema{
	"subject": "",
	"body":    "",
}

// GeneratedEmail is the result of AI email generation.
type GeneratedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// GenerateEmail produces one HR email of the given template type.
func (a *Analyzer) GenerateEmail(ctx context.Context, templateType, candidateName, jobTitle, companyName, extraContext string) GeneratedEmail {
	p := prompts.Email(templateType, candidateName, jobTitle, companyName, extraContext)
	raw, err := a.client.Generate(ctx, llm.Request{
		System:      p.System,
		User:        p.User,
		Temperature: 0.6,
		MaxTokens:   1500,
	})
	if err == nil {
		var parsed map[string]any
		parsed, err = llm.ParseWithSchema(raw, emailSchema)
		if err == nil {
			return GeneratedEmail{
				Subject: toString(parsed["subject"], ""),
				Body:    toString(parsed["body"], ""),
			}
		}
	}
	return GeneratedEmail{
		Subject: "Regarding " + jobTitle + " position",
		Body:    "Error generating email: " + err.Error(),
	}
}

var comparisonSchema = llm.Schema{
	"ranking":               []any{},
	"comparison_summary":    "",
	"hiring_recommendation": "",
}

// RankedCandidate is one entry in a comparison ranking.
type RankedCandidate struct {
	Name   string `json:"name"`
	Rank   int    `json:"rank"`
	Reason string `json:"reason"`
}

// Comparison is the result of comparing several candidates.
type Comparison struct {
	Ranking              []RankedCandidate `json:"ranking"`
	ComparisonSummary    string            `json:"comparison_summary"`
	HiringRecommendation string            `json:"hiring_recommendation"`
}

// CompareCandidates ranks stored candidate summaries against a job
// description. The result is not persisted.
func (a *Analyzer) CompareCandidates(ctx context.Context, candidates []prompts.CandidateSummary, jdText string) Comparison {
	p := prompts.Comparison(candidates, jdText)
	raw, err := a.client.Generate(ctx, llm.Request{
		System:      p.System,
		User:        p.User,
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	if err == nil {
		var parsed map[string]any
		parsed, err = llm.ParseWithSchema(raw, comparisonSchema)
		if err == nil {
			return Comparison{
				Ranking:              toRanking(parsed["ranking"]),
				ComparisonSummary:    toString(parsed["comparison_summary"], ""),
				HiringRecommendation: toString(parsed["hiring_recommendation"], ""),
			}
		}
	}
	return Comparison{
		Ranking:           []RankedCandidate{},
		ComparisonSummary: "Error: " + err.Error(),
	}
}

// Chat answers a free-form HR question with live pipeline context. Like
// every AI operation it degrades to an apologetic reply instead of
// returning an error.
func (a *Analyzer) Chat(ctx context.Context, message, dbContext, extraContext string) string {
	p := prompts.Chat(message, dbContext, extraContext)
	raw, err := a.client.Generate(ctx, llm.Request{
		System:      p.System,
		User:        p.User,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "I hit a snag answering that - please try again. (error: " + err.Error() + ")"
	}
	return raw
}
