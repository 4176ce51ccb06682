package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
	"glauniversity/ats-matcher/internal/services"
)

type recordingStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (s *recordingStorage) EnsureReady(context.Context) error { return nil }

func (s *recordingStorage) Save(_ context.Context, doc models.Document, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := prefix + "/" + doc.Filename
	s.saved = append(s.saved, key)
	return key, nil
}

func (s *recordingStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, key)
	return nil
}

type failingRuns struct{}

func (failingRuns) Create(context.Context, *models.RankingRun) error {
	return errors.New("database unavailable")
}

func (failingRuns) FindByID(context.Context, uuid.UUID) (*models.RankingRun, error) {
	return nil, errors.New("database unavailable")
}

// newRecruiterApp mounts HandleRank without session middleware.
func newRecruiterApp(runs *failingRuns, storage *recordingStorage) *fiber.App {
	log := zap.NewNop()
	generator := &markerGenerator{fallback: "70"}
	extractor := services.NewTextExtractor()
	scorer := services.NewMatchScorer(generator, log)
	ranking := services.NewRankingService(extractor, services.NewScoringPool(scorer, 1, log), 10, log)

	handler := NewRecruiterHandler(ranking, extractor, runs, storage, 1024, 3, 10, log)

	app := fiber.New()
	app.Post("/rank", handler.HandleRank)
	return app
}

func TestRankDiscardsArchiveWhenRunCannotBeStored(t *testing.T) {
	storage := &recordingStorage{}
	app := newRecruiterApp(&failingRuns{}, storage)

	req := multipartRequest(t, "/rank", "", nil, []upload{
		{"job_description", "jd.txt", "jd"},
		{"resumes", "a.txt", "a"},
		{"resumes", "b.txt", "b"},
	})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ranking must still succeed, got %d", resp.StatusCode)
	}
	if len(storage.saved) != 2 {
		t.Fatalf("expected both resumes archived, got %v", storage.saved)
	}
	if len(storage.deleted) != 2 || storage.deleted[0] != "resumes/a.txt" || storage.deleted[1] != "resumes/b.txt" {
		t.Fatalf("expected archived resumes to be removed, got %v", storage.deleted)
	}
}
