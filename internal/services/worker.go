package services

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ScoreOutcome is the result of scoring one resume. Score is valid even when
// Err is set.
type ScoreOutcome struct {
	Score float64
	Err   error
}

type ScoringPool interface {
	// ScoreAll scores every resume against jobDescription. outcomes[i]
	// belongs to resumes[i].
	ScoreAll(ctx context.Context, jobDescription string, resumes []string) []ScoreOutcome
}

type scoringPool struct {
	scorer      MatchScorer
	concurrency int
	log         *zap.Logger
}

func NewScoringPool(scorer MatchScorer, concurrency int, log *zap.Logger) ScoringPool {
	if concurrency < 1 {
		concurrency = 1
	}

	return &scoringPool{
		scorer:      scorer,
		concurrency: concurrency,
		log:         log,
	}
}

// ScoreAll implements ScoringPool.
func (p *scoringPool) ScoreAll(ctx context.Context, jobDescription string, resumes []string) []ScoreOutcome {
	outcomes := make([]ScoreOutcome, len(resumes))
	if len(resumes) == 0 {
		return outcomes
	}

	workers := min(p.concurrency, len(resumes))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go p.processJobs(ctx, i+1, jobDescription, resumes, jobs, outcomes, &wg)
	}

	for i := range resumes {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return outcomes
}

func (p *scoringPool) processJobs(
	ctx context.Context,
	workerID int,
	jobDescription string,
	resumes []string,
	jobs <-chan int,
	outcomes []ScoreOutcome,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for index := range jobs {
		p.log.Debug("scoring resume", zap.Int("worker", workerID), zap.Int("index", index))

		score, err := p.scorer.Score(ctx, jobDescription, resumes[index])
		outcomes[index] = ScoreOutcome{Score: score, Err: err}
	}
}
