package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"glauniversity/ats-matcher/internal/models"
)

var ErrNotFound = errors.New("record not found")

type RankingRepository interface {
	Create(ctx context.Context, run *models.RankingRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RankingRun, error)
}

type rankingRepository struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

// Create implements RankingRepository. The run and its resumes are written in one transaction.
func (r *rankingRepository) Create(ctx context.Context, run *models.RankingRun) error {
	prepareRun(run)

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create ranking run: %w", err)
	}

	return nil
}

// FindByID implements RankingRepository.
func (r *rankingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.RankingRun, error) {
	var run models.RankingRun
	err := r.db.WithContext(ctx).
		Preload("Resumes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ranking run: %w", err)
	}

	return &run, nil
}

type memoryRankingRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]models.RankingRun
}

// NewMemoryRankingRepository keeps runs for the lifetime of the process.
func NewMemoryRankingRepository() RankingRepository {
	return &memoryRankingRepository{runs: make(map[uuid.UUID]models.RankingRun)}
}

// Create implements RankingRepository.
func (m *memoryRankingRepository) Create(_ context.Context, run *models.RankingRun) error {
	prepareRun(run)

	stored := *run
	stored.Resumes = append([]models.RankedResume(nil), run.Resumes...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = stored

	return nil
}

// FindByID implements RankingRepository.
func (m *memoryRankingRepository) FindByID(_ context.Context, id uuid.UUID) (*models.RankingRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}

	run.Resumes = append([]models.RankedResume(nil), run.Resumes...)
	return &run, nil
}

func prepareRun(run *models.RankingRun) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	for i := range run.Resumes {
		if run.Resumes[i].ID == uuid.Nil {
			run.Resumes[i].ID = uuid.New()
		}
		run.Resumes[i].RunID = run.ID
		run.Resumes[i].Position = i + 1
	}
}
