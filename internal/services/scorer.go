package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/logger"
)

const (
	FallbackScore = 50.0
	MinScore      = 0.0
	MaxScore      = 100.0
)

type MatchScorer interface {
	// Score always returns a value in [0, 100]. A non-nil error means the
	// model could not be reached and the score is FallbackScore.
	Score(ctx context.Context, jobDescription, resumeText string) (float64, error)
}

type matchScorer struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewMatchScorer(generator TextGenerator, log *zap.Logger) MatchScorer {
	return &matchScorer{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		log:           log,
	}
}

// Score implements MatchScorer.
func (s *matchScorer) Score(ctx context.Context, jobDescription, resumeText string) (float64, error) {
	prompt := s.promptBuilder.BuildMatchScorePrompt(jobDescription, resumeText)

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Warn("match score request failed, using fallback", zap.Error(err), zap.Float64("score", FallbackScore))
		return FallbackScore, fmt.Errorf("error generating score: %w", err)
	}

	score := ParseScore(raw)
	s.log.Debug("match score parsed",
		zap.String("raw", logger.Preview(raw, 50)),
		zap.Float64("score", score),
	)

	return score, nil
}

// ParseScore reads a model answer as a decimal number and clamps it. Answers
// that are not a number, hexadecimal floats included, yield FallbackScore.
func ParseScore(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if isHexNumber(raw) {
		return FallbackScore
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return FallbackScore
	}

	return ClampScore(value)
}

func isHexNumber(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// ClampScore bounds v to [MinScore, MaxScore]. NaN maps to MinScore.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(v, MaxScore))
}
