package services

import (
	"context"

	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
)

type StudentService interface {
	// Analyze asks every student prompt in order. A failed prompt yields a
	// section with no response and the error message; the others still run.
	Analyze(ctx context.Context, profile models.StudentProfile, jobDescription string) *models.StudentAnalysisResponse
}

type studentService struct {
	responder     AnalysisResponder
	guidance      GuidanceService
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

// NewStudentService builds the student flow. guidance may be nil.
func NewStudentService(responder AnalysisResponder, guidance GuidanceService, log *zap.Logger) StudentService {
	return &studentService{
		responder:     responder,
		guidance:      guidance,
		promptBuilder: NewPromptBuilder(),
		log:           log,
	}
}

// Analyze implements StudentService.
func (s *studentService) Analyze(ctx context.Context, profile models.StudentProfile, jobDescription string) *models.StudentAnalysisResponse {
	resumeText := s.promptBuilder.BuildResumeText(profile)
	guidance := s.retrieveGuidance(ctx, jobDescription)

	prompts := s.promptBuilder.StudentPrompts()
	sections := make([]models.AnalysisSection, 0, len(prompts))

	for _, p := range prompts {
		prompt := p.Prompt
		if p.Guided {
			prompt = s.promptBuilder.WithGuidance(prompt, guidance)
		}

		section := models.AnalysisSection{Title: p.Title}

		response, err := s.responder.Respond(ctx, resumeText, jobDescription, prompt)
		if err != nil {
			msg := err.Error()
			section.Error = &msg
		} else {
			section.Response = &response
		}

		sections = append(sections, section)
	}

	return &models.StudentAnalysisResponse{
		ResumeText: resumeText,
		Sections:   sections,
	}
}

func (s *studentService) retrieveGuidance(ctx context.Context, jobDescription string) string {
	if s.guidance == nil {
		return ""
	}

	guidance, err := s.guidance.Retrieve(ctx, jobDescription)
	if err != nil {
		s.log.Warn("⚠️ Failed to retrieve resume guidance", zap.Error(err))
		return ""
	}

	return guidance
}
