package repository

import (
	"codedrill_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert writes the progress row for (user, slug), replacing status, attempts
// and last code. Last write wins.
func (r *ProgressRepository) Upsert(progress *model.ProblemProgress) error {
	progress.UpdatedAt = time.Now()
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "attempts", "last_code", "updated_at"}),
	}).Create(progress).Error
}

func (r *ProgressRepository) Read(userID, slug string) (*model.ProblemProgress, error) {
	var progress model.ProblemProgress
	err := r.DB.Where("user_id = ? AND slug = ?", userID, slug).First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) ListSince(userID string, since time.Time) ([]model.ProblemProgress, error) {
	var rows []model.ProblemProgress
	err := r.DB.Where("user_id = ? AND updated_at >= ?", userID, since).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) StatusIndex(userID string) (map[string]model.ProgressStatus, error) {
	var rows []model.ProblemProgress
	if err := r.DB.Select("slug", "status").Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	idx := make(map[string]model.ProgressStatus, len(rows))
	for _, row := range rows {
		idx[row.Slug] = row.Status
	}
	return idx, nil
}
