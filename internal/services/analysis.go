package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type AnalysisResponder interface {
	// Respond returns the model's raw answer. On failure the answer is empty
	// and the error explains why.
	Respond(ctx context.Context, resumeText, jobDescription, prompt string) (string, error)
}

type analysisResponder struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewAnalysisResponder(generator TextGenerator, log *zap.Logger) AnalysisResponder {
	return &analysisResponder{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		log:           log,
	}
}

// Respond implements AnalysisResponder.
func (a *analysisResponder) Respond(ctx context.Context, resumeText, jobDescription, prompt string) (string, error) {
	request := a.promptBuilder.BuildAnalysisRequest(resumeText, jobDescription, prompt)

	response, err := a.generator.GenerateText(ctx, request)
	if err != nil {
		a.log.Warn("analysis request failed", zap.Error(err))
		return "", fmt.Errorf("error in gemini api: %w", err)
	}

	return response, nil
}
