package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
)

// fakeExtractor returns the document name prefixed with "text of " unless an
// error is registered for it.
type fakeExtractor struct {
	errs  map[string]error
	calls []string
}

func (f *fakeExtractor) ExtractText(doc models.Document) (string, error) {
	f.calls = append(f.calls, doc.Filename)
	if err, ok := f.errs[doc.Filename]; ok {
		return "", err
	}
	return "text of " + doc.Filename, nil
}

func (f *fakeExtractor) ExtractFile(path string) (string, error) {
	return f.ExtractText(models.Document{Filename: path})
}

func uploads(names ...string) []models.Document {
	docs := make([]models.Document, len(names))
	for i, name := range names {
		docs[i] = models.Document{Filename: name}
	}
	return docs
}

func newTestRankingService(stub *stubGenerator, extractor TextExtractor, concurrency int) RankingService {
	scorer := NewMatchScorer(stub, zap.NewNop())
	pool := NewScoringPool(scorer, concurrency, zap.NewNop())
	return NewRankingService(extractor, pool, 10, zap.NewNop())
}

func filenames(entries []models.ResumeEntry) string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Filename
	}
	return strings.Join(names, ",")
}

func TestRankSortsDescendingWithStableTies(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		stub := &stubGenerator{responses: map[string]string{
			"text of A": "72.5",
			"text of B": "91.0",
			"text of C": "91",
		}}
		service := newTestRankingService(stub, &fakeExtractor{}, concurrency)

		result, err := service.Rank(context.Background(), RankRequest{
			JobDescription: "Go engineer",
			Resumes:        uploads("A", "B", "C"),
			TopN:           2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := filenames(result.Entries); got != "B,C,A" {
			t.Fatalf("concurrency %d: unexpected order %s", concurrency, got)
		}
		if got := filenames(result.Top); got != "B,C" {
			t.Fatalf("concurrency %d: unexpected top %s", concurrency, got)
		}
		if result.Entries[2].MatchScore != 72.5 {
			t.Fatalf("unexpected score for A: %v", result.Entries[2].MatchScore)
		}
		if len(result.Warnings) != 0 {
			t.Fatalf("unexpected warnings: %v", result.Warnings)
		}
	}
}

func TestRankTopNLargerThanBatch(t *testing.T) {
	stub := &stubGenerator{response: "60"}
	service := newTestRankingService(stub, &fakeExtractor{}, 2)

	result, err := service.Rank(context.Background(), RankRequest{
		JobDescription: "jd",
		Resumes:        uploads("only.pdf"),
		TopN:           10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Top) != 1 {
		t.Fatalf("expected single top entry, got %d", len(result.Top))
	}
}

func TestRankScoringFailureBecomesWarning(t *testing.T) {
	stub := &stubGenerator{err: errors.New("invalid api key")}
	service := newTestRankingService(stub, &fakeExtractor{}, 1)

	result, err := service.Rank(context.Background(), RankRequest{
		JobDescription: "jd",
		Resumes:        uploads("a.pdf", "b.pdf"),
		TopN:           3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, entry := range result.Entries {
		if entry.MatchScore != FallbackScore {
			t.Fatalf("expected fallback score, got %v", entry.MatchScore)
		}
	}
	if got := filenames(result.Entries); got != "a.pdf,b.pdf" {
		t.Fatalf("equal fallback scores must keep upload order, got %s", got)
	}
	if len(result.Warnings) != 2 || !strings.HasPrefix(result.Warnings[0], "a.pdf: ") {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestRankExtractionFailureAbortsBatch(t *testing.T) {
	stub := &stubGenerator{response: "80"}
	extractor := &fakeExtractor{errs: map[string]error{"b.pdf": errors.New("corrupt")}}
	service := newTestRankingService(stub, extractor, 1)

	_, err := service.Rank(context.Background(), RankRequest{
		JobDescription: "jd",
		Resumes:        uploads("a.pdf", "b.pdf", "c.pdf"),
		TopN:           3,
	})
	if err == nil || !strings.Contains(err.Error(), "b.pdf") {
		t.Fatalf("expected extraction error naming b.pdf, got %v", err)
	}
	if len(stub.calls()) != 0 {
		t.Fatalf("no resume may be scored when extraction fails, got %d calls", len(stub.calls()))
	}
}

func TestRankValidatesRequest(t *testing.T) {
	service := newTestRankingService(&stubGenerator{response: "1"}, &fakeExtractor{}, 1)
	ctx := context.Background()

	cases := []struct {
		name string
		req  RankRequest
		want error
	}{
		{"empty jd", RankRequest{JobDescription: "  ", Resumes: uploads("a"), TopN: 1}, ErrEmptyJobDescription},
		{"no resumes", RankRequest{JobDescription: "jd", TopN: 1}, ErrNoResumes},
		{"top zero", RankRequest{JobDescription: "jd", Resumes: uploads("a"), TopN: 0}, ErrInvalidTopN},
		{"top eleven", RankRequest{JobDescription: "jd", Resumes: uploads("a"), TopN: 11}, ErrInvalidTopN},
	}

	for _, tc := range cases {
		if _, err := service.Rank(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestTopEntries(t *testing.T) {
	entries := []models.ResumeEntry{{Filename: "a"}, {Filename: "b"}, {Filename: "c"}}

	if got := filenames(TopEntries(entries, 2)); got != "a,b" {
		t.Fatalf("unexpected prefix: %s", got)
	}
	if got := TopEntries(entries, 5); len(got) != 3 {
		t.Fatalf("expected whole slice, got %d", len(got))
	}
	if got := TopEntries(entries, -1); len(got) != 0 {
		t.Fatalf("expected empty slice, got %d", len(got))
	}
}

func TestScoringPoolKeepsIndexAlignment(t *testing.T) {
	stub := &stubGenerator{responses: map[string]string{
		"RESUME_ZERO": "10", "RESUME_ONE": "20", "RESUME_TWO": "30", "RESUME_THREE": "40", "RESUME_FOUR": "50",
	}}
	pool := NewScoringPool(NewMatchScorer(stub, zap.NewNop()), 4, zap.NewNop())

	outcomes := pool.ScoreAll(context.Background(), "jd", []string{"RESUME_ZERO", "RESUME_ONE", "RESUME_TWO", "RESUME_THREE", "RESUME_FOUR"})
	for i, outcome := range outcomes {
		if want := float64((i + 1) * 10); outcome.Score != want {
			t.Fatalf("outcome %d: got %v want %v", i, outcome.Score, want)
		}
	}

	if got := pool.ScoreAll(context.Background(), "jd", nil); len(got) != 0 {
		t.Fatalf("expected no outcomes for empty batch")
	}
}
