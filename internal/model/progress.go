package model

import "time"

type ProgressStatus string

const (
	StatusAttempted ProgressStatus = "attempted"
	StatusSolved    ProgressStatus = "solved"
)

// ProblemProgress is keyed by (user, problem slug) and upserted on every run.
// swagger:model ProblemProgress
type ProblemProgress struct {
	UserID    string         `gorm:"primaryKey;size:36" json:"userId"`
	Slug      string         `gorm:"primaryKey;size:200" json:"slug"`
	Status    ProgressStatus `gorm:"size:20;not null" json:"status"`
	Attempts  int            `gorm:"default:0" json:"attempts"`
	LastCode  string         `gorm:"type:text" json:"lastCode"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (ProblemProgress) TableName() string {
	return "problem_progress"
}
