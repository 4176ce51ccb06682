package services

import (
	"fmt"
	"strings"

	"glauniversity/ats-matcher/internal/models"
)

// NamedPrompt is an instruction whose answer is shown under Title. Guided
// prompts may be extended with retrieved reference guidelines.
type NamedPrompt struct {
	Title  string
	Prompt string
	Guided bool
}

var studentPrompts = []NamedPrompt{
	{
		Title: "Match Percentage",
		Prompt: `You are an ATS scanner. Evaluate the resume against the job description
and provide a match percentage. Return only a numerical value.`,
	},
	{
		Title:  "Relevant Skills",
		Prompt: "Identify skills in the resume that match the job description.",
		Guided: true,
	},
	{
		Title:  "Recommended Skills",
		Prompt: "List skills from the job description not present in the resume.",
		Guided: true,
	},
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildMatchScorePrompt asks for a bare 0-100 number.
func (pb *PromptBuilder) BuildMatchScorePrompt(jobDescription, resumeText string) string {
	return fmt.Sprintf(`Analyze the following job description and resume,
and provide a numerical score (0-100) representing how well
the resume matches the job requirements. Consider:
1. Relevant skills
2. Professional experience
3. Alignment with job responsibilities
4. Keyword match

Job Description:
%s

Resume:
%s

Return only the numerical score between 0 and 100.`,
		jobDescription, resumeText)
}

// BuildAnalysisRequest joins the three labelled sections sent to the model.
func (pb *PromptBuilder) BuildAnalysisRequest(resumeText, jobDescription, prompt string) string {
	return fmt.Sprintf("Resume:\n%s\n\nJob Description:\n%s\n\nPrompt:\n%s", resumeText, jobDescription, prompt)
}

// StudentPrompts returns the analysis questions in display order.
func (pb *PromptBuilder) StudentPrompts() []NamedPrompt {
	return append([]NamedPrompt(nil), studentPrompts...)
}

// BuildResumeText renders the student form as plain resume text. Contact
// lines and the Skills/Education sections are always present; the remaining
// sections are appended only when filled in.
func (pb *PromptBuilder) BuildResumeText(p models.StudentProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n%s\n\nSkills:\n%s\n\nEducation:\n%s", p.Name, p.Email, p.Phone, p.Skills, p.Education)

	optional := []struct {
		title string
		body  string
	}{
		{"Work Experience", p.WorkExperience},
		{"Projects", p.Projects},
		{"Achievements", p.Achievements},
		{"Certifications", p.Certifications},
		{"Hobbies", p.Hobbies},
	}
	for _, section := range optional {
		if strings.TrimSpace(section.body) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n%s:\n%s", section.title, section.body)
	}

	return b.String()
}

// WithGuidance appends retrieved reference material to an instruction.
func (pb *PromptBuilder) WithGuidance(prompt, guidance string) string {
	guidance = strings.TrimSpace(guidance)
	if guidance == "" {
		return prompt
	}
	return fmt.Sprintf("%s\n\nReference Guidelines:\n%s", prompt, guidance)
}

// FormatRAGContext renders search hits as numbered context blocks.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
