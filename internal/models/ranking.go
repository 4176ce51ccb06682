package models

import (
	"time"

	"github.com/google/uuid"
)

// ResumeEntry is one row of a ranking table.
type ResumeEntry struct {
	Filename    string  `json:"filename"`
	MatchScore  float64 `json:"match_score"`
	UploadIndex int     `json:"-"`
}

type RankingRun struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Username       string         `gorm:"type:text;not null" json:"username"`
	JobDescription string         `gorm:"type:text" json:"job_description"`
	TopN           int            `gorm:"not null" json:"top_n"`
	Resumes        []RankedResume `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"resumes"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (RankingRun) TableName() string {
	return "ranking_runs"
}

type RankedResume struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RunID      uuid.UUID `gorm:"type:uuid;not null;index" json:"run_id"`
	Position   int       `gorm:"not null" json:"position"`
	Filename   string    `gorm:"type:text" json:"filename"`
	MatchScore float64   `gorm:"type:decimal(5,2)" json:"match_score"`
	StorageKey *string   `gorm:"type:text" json:"storage_key,omitempty"`
}

func (RankedResume) TableName() string {
	return "ranked_resumes"
}
