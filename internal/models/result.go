package models

import "github.com/google/uuid"

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// StudentProfile holds the resume generator form fields.
type StudentProfile struct {
	Name           string `json:"name" form:"name"`
	Email          string `json:"email" form:"email"`
	Phone          string `json:"phone" form:"phone"`
	Skills         string `json:"skills" form:"skills"`
	Education      string `json:"education" form:"education"`
	WorkExperience string `json:"work_experience" form:"work_experience"`
	Projects       string `json:"projects" form:"projects"`
	Achievements   string `json:"achievements" form:"achievements"`
	Certifications string `json:"certifications" form:"certifications"`
	Hobbies        string `json:"hobbies" form:"hobbies"`
}

// AnalysisSection is one labelled answer. Response is nil when the model call failed.
type AnalysisSection struct {
	Title    string  `json:"title"`
	Response *string `json:"response"`
	Error    *string `json:"error,omitempty"`
}

type StudentAnalysisResponse struct {
	ResumeText string            `json:"resume_text"`
	Sections   []AnalysisSection `json:"sections"`
}

type TopCandidate struct {
	Filename   string  `json:"filename"`
	MatchScore float64 `json:"match_score"`
	Display    string  `json:"display"`
}

type RankResponse struct {
	RunID          *uuid.UUID     `json:"run_id,omitempty"`
	JobDescription string         `json:"job_description"`
	Results        []ResumeEntry  `json:"results"`
	TopCandidates  []TopCandidate `json:"top_candidates"`
	Warnings       []string       `json:"warnings,omitempty"`
}
