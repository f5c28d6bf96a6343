package service

import (
	"codedrill_backend/internal/model"
	"codedrill_backend/internal/repository"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{ProgressRepo: progressRepo}
}

// ProgressView mirrors what the client editor stores locally.
type ProgressView struct {
	Solved        bool   `json:"solved"`
	Attempts      int    `json:"attempts"`
	LastCode      string `json:"lastCode,omitempty"`
	LastUpdatedAt int64  `json:"lastUpdatedAt"`
}

func (s *ProgressService) Read(userID, slug string) (*ProgressView, error) {
	row, err := s.ProgressRepo.Read(userID, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ProgressView{
		Solved:        row.Status == model.StatusSolved,
		Attempts:      row.Attempts,
		LastCode:      row.LastCode,
		LastUpdatedAt: row.UpdatedAt.UnixMilli(),
	}, nil
}

// Record upserts the progress row, bumping the attempt counter. Solved is
// monotonic: a later failed run never demotes a solved problem back to
// attempted.
func (s *ProgressService) Record(userID, slug string, solved bool, lastCode string) error {
	status := model.StatusAttempted
	if solved {
		status = model.StatusSolved
	}

	attempts := 1
	if prev, err := s.ProgressRepo.Read(userID, slug); err == nil {
		if prev.Status == model.StatusSolved {
			status = model.StatusSolved
		}
		attempts = prev.Attempts + 1
	}

	return s.ProgressRepo.Upsert(&model.ProblemProgress{
		UserID:   userID,
		Slug:     slug,
		Status:   status,
		Attempts: attempts,
		LastCode: lastCode,
	})
}

// StatusIndex returns the caller's status keyed by problem slug, one query for
// badging a whole problem list.
func (s *ProgressService) StatusIndex(userID string) (map[string]model.ProgressStatus, error) {
	return s.ProgressRepo.StatusIndex(userID)
}

// DailyStat is one day bucket of progress activity.
type DailyStat struct {
	Date      string `json:"date"`
	Solved    int    `json:"solved"`
	Attempted int    `json:"attempted"`
}

// DailyStats buckets the user's progress rows by UTC day over a trailing
// window of 1..90 days (default 14), zero-filling empty days.
func (s *ProgressService) DailyStats(userID string, days int) ([]DailyStat, error) {
	if days <= 0 {
		days = 14
	}
	if days > 90 {
		days = 90
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	buckets := make(map[string]*DailyStat, days)
	keys := make([]string, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		buckets[key] = &DailyStat{Date: key}
		keys = append(keys, key)
	}

	rows, err := s.ProgressRepo.ListSince(userID, start)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		key := row.UpdatedAt.UTC().Format("2006-01-02")
		bucket, ok := buckets[key]
		if !ok {
			continue
		}
		switch row.Status {
		case model.StatusSolved:
			bucket.Solved++
		case model.StatusAttempted:
			bucket.Attempted++
		}
	}

	out := make([]DailyStat, 0, days)
	for _, key := range keys {
		out = append(out, *buckets[key])
	}
	return out, nil
}
