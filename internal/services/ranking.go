package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
)

var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrNoResumes           = errors.New("at least one resume is required")
	ErrInvalidTopN         = errors.New("top_n is out of range")
)

type RankRequest struct {
	JobDescription string
	Resumes        []models.Document
	TopN           int
}

type RankResult struct {
	// Entries is sorted by descending score; ties keep upload order.
	Entries []models.ResumeEntry
	// Top is the first min(TopN, len(Entries)) entries.
	Top      []models.ResumeEntry
	Warnings []string
}

type RankingService interface {
	Rank(ctx context.Context, req RankRequest) (*RankResult, error)
}

type rankingService struct {
	extractor TextExtractor
	pool      ScoringPool
	maxTopN   int
	log       *zap.Logger
}

func NewRankingService(extractor TextExtractor, pool ScoringPool, maxTopN int, log *zap.Logger) RankingService {
	return &rankingService{
		extractor: extractor,
		pool:      pool,
		maxTopN:   maxTopN,
		log:       log,
	}
}

// Rank implements RankingService. Every resume is extracted before any is
// scored; one unreadable resume fails the whole batch.
func (r *rankingService) Rank(ctx context.Context, req RankRequest) (*RankResult, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	if len(req.Resumes) == 0 {
		return nil, ErrNoResumes
	}
	if req.TopN < 1 || req.TopN > r.maxTopN {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidTopN, req.TopN, r.maxTopN)
	}

	r.log.Info("ranking resumes", zap.Int("resumes", len(req.Resumes)), zap.Int("top_n", req.TopN))

	texts := make([]string, len(req.Resumes))
	for i, doc := range req.Resumes {
		text, err := r.extractor.ExtractText(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from %s: %w", doc.Filename, err)
		}
		texts[i] = text
	}

	outcomes := r.pool.ScoreAll(ctx, req.JobDescription, texts)

	entries := make([]models.ResumeEntry, len(req.Resumes))
	var warnings []string
	for i, outcome := range outcomes {
		entries[i] = models.ResumeEntry{
			Filename:    req.Resumes[i].Filename,
			MatchScore:  outcome.Score,
			UploadIndex: i,
		}
		if outcome.Err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", req.Resumes[i].Filename, outcome.Err))
		}
	}

	SortByScore(entries)

	r.log.Info("ranking completed", zap.Int("resumes", len(entries)), zap.Int("warnings", len(warnings)))

	return &RankResult{
		Entries:  entries,
		Top:      TopEntries(entries, req.TopN),
		Warnings: warnings,
	}, nil
}

// SortByScore orders entries by descending MatchScore, keeping the input
// order among equal scores.
func SortByScore(entries []models.ResumeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MatchScore > entries[j].MatchScore
	})
}

// TopEntries returns the first min(n, len(entries)) entries.
func TopEntries(entries []models.ResumeEntry, n int) []models.ResumeEntry {
	if n < 0 {
		n = 0
	}
	n = min(n, len(entries))
	return append([]models.ResumeEntry(nil), entries[:n]...)
}
