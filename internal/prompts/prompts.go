// Package prompts composes the system and user prompts for every AI call
// site. Each user prompt embeds the exact JSON shape the response must
// match; that shape doubles as the backfill schema declared in the
// analysis package.
package prompts

import (
	"fmt"
	"strings"
)

// Prompt is a system instruction plus a task-specific user prompt.
type Prompt struct {
	System string
	User   string
}

const analystSystem = `You are an expert AI HR analyst. You analyze resumes with surgical precision.
Always respond with valid JSON only. No markdown, no explanations - just pure JSON.`

const writerSystem = `You are an expert HR content writer. Create compelling, inclusive job descriptions.
Always respond with valid JSON only.`

const emailSystem = `You are an empathetic HR communication expert. Write professional, warm emails.
Always respond with valid JSON only.`

const advisorSystem = `You are a strategic HR advisor. Compare candidates objectively.
Always respond with valid JSON only.`

// ResumeAnalysis builds the prompt for scoring one resume against a job
// description.
func ResumeAnalysis(jdText, resumeText string) Prompt {
	user := fmt.Sprintf(`Analyze this resume against the job description. Be thorough and fair.

JOB DESCRIPTION:
%s

RESUME:
%s

Return this EXACT JSON structure:
{
    "candidate_name": "<full name extracted from resume>",
    "candidate_email": "<email if found, else empty string>",
    "candidate_phone": "<phone if found, else empty string>",
    "current_role": "<current or most recent job title>",
    "experience_years": <estimated total years of experience as number>,
    "overall_match_score": <number 0-100>,
    "star_rating": <number 1.0-5.0 with one decimal>,
    "overall_summary": "<2-3 sentence professional summary>",
    "strengths": ["<strength 1>", "<strength 2>", "<strength 3>", "<strength 4>"],
    "gaps": ["<gap 1>", "<gap 2>", "<gap 3>"],
    "matched_skills": ["<skill1>", "<skill2>", ...],
    "missing_skills": ["<skill1>", "<skill2>", ...],
    "experience_analysis": "<detailed analysis of experience relevance>",
    "recommendation": "<HIGHLY RECOMMENDED | RECOMMENDED | MAYBE | NOT RECOMMENDED>",
    "culture_fit_notes": "<brief notes on potential culture fit based on resume>",
    "red_flags": ["<any red flags noticed>"],
    "suggested_interview_questions": ["<question 1>", "<question 2>", "<question 3>"]
}`, jdText, resumeText)

	return Prompt{System: analystSystem, User: user}
}

// JDGeneration builds the prompt for generating a job description from
// minimal inputs.
func JDGeneration(title, department, brief, experienceLevel string) Prompt {
	user := fmt.Sprintf(`Create a professional job description for:
- Title: %s
- Department: %s
- Experience Level: %s
- Brief: %s

Return this EXACT JSON:
{
    "title": "<polished job title>",
    "description": "<compelling 3-4 paragraph job description with role overview, team info, impact>",
    "requirements": "<bullet-pointed list of requirements, 6-8 items>",
    "nice_to_have": "<bullet-pointed list of nice-to-have skills, 3-4 items>",
    "salary_suggestion": "<suggested salary range based on role and level>"
}`, title, department, experienceLevel, brief)

	return Prompt{System: writerSystem, User: user}
}

// emailInstructions maps a template type to its writing instruction. An
// unrecognized type falls back to the custom instruction.
func emailInstructions(templateType, extraContext string) string {
	switch templateType {
	case "rejection":
		return "Write a kind, professional rejection email. Be empathetic but clear. Encourage them to apply for future roles."
	case "interview_invite":
		return "Write an exciting interview invitation email. Include placeholders for date/time. Make them feel valued."
	case "offer":
		return "Write a congratulatory offer email. Be enthusiastic! Include placeholder for offer details."
	case "follow_up":
		return "Write a professional follow-up email checking on the candidate's interest/availability."
	default:
		return fmt.Sprintf("Write a professional email with this context: %s", extraContext)
	}
}

// Email builds the prompt for generating one HR email.
func Email(templateType, candidateName, jobTitle, companyName, extraContext string) Prompt {
	var sb strings.Builder
	sb.WriteString(emailInstructions(templateType, extraContext))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Candidate: %s\n", candidateName)
	fmt.Fprintf(&sb, "Position: %s\n", jobTitle)
	fmt.Fprintf(&sb, "Company: %s\n", companyName)
	if extraContext != "" {
		fmt.Fprintf(&sb, "Additional context: %s\n", extraContext)
	}
	sb.WriteString(`
Return this EXACT JSON:
{
    "subject": "<email subject line>",
    "body": "<full email body with proper greeting and sign-off>"
}`)

	return Prompt{System: emailSystem, User: sb.String()}
}

// CandidateSummary is the slice of stored candidate state fed into the
// comparison prompt.
type CandidateSummary struct {
	Name            string
	MatchScore      float64
	Strengths       []string
	Gaps            []string
	ExperienceYears float64
}

// Comparison builds the prompt for ranking several candidates against one
// job description.
func Comparison(candidates []CandidateSummary, jdText string) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Compare these candidates for the role:\n\nJOB DESCRIPTION:\n%s\n\n", jdText)

	for i, c := range candidates {
		fmt.Fprintf(&sb, "CANDIDATE %d: %s\n", i+1, c.Name)
		fmt.Fprintf(&sb, "Score: %.0f/100\n", c.MatchScore)
		fmt.Fprintf(&sb, "Strengths: %s\n", strings.Join(c.Strengths, ", "))
		fmt.Fprintf(&sb, "Gaps: %s\n", strings.Join(c.Gaps, ", "))
		fmt.Fprintf(&sb, "Experience: %.1f years\n\n", c.ExperienceYears)
	}

	sb.WriteString(`Return this EXACT JSON:
{
    "ranking": [
        {"name": "<candidate name>", "rank": 1, "reason": "<why #1>"}
    ],
    "comparison_summary": "<overall comparison paragraph>",
    "hiring_recommendation": "<who to call first and why>"
}`)

	return Prompt{System: advisorSystem, User: sb.String()}
}

// Chat builds the prompt for the conversational HR assistant. dbContext
// carries live pipeline numbers gathered from the store; extraContext is
// optional caller-provided context.
func Chat(message, dbContext, extraContext string) Prompt {
	var sb strings.Builder
	sb.WriteString(`You are a warm, empowering, and brilliant AI HR assistant.

PERSONALITY:
- You're friendly, supportive, and professional
- You give practical, actionable HR advice
- You're empathetic and understand HR challenges
- Keep responses concise and helpful (2-4 paragraphs max)

YOUR CAPABILITIES:
- Resume screening & analysis
- Job description creation
- Candidate pipeline management
- Email drafting
- HR strategy advice and best practices
- Interview preparation tips

LIVE DATA FROM YOUR SYSTEM:
`)
	sb.WriteString(dbContext)
	if extraContext != "" {
		fmt.Fprintf(&sb, "\n\nAdditional context: %s", extraContext)
	}
	sb.WriteString("\n\nAlways stay in character as the HR assistant. If asked something outside HR, gently redirect while being helpful.")

	return Prompt{System: sb.String(), User: message}
}
