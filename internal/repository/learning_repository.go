package repository

import (
	"codedrill_backend/internal/model"

	"gorm.io/gorm"
)

type LearningRepository struct {
	DB *gorm.DB
}

func NewLearningRepository(db *gorm.DB) *LearningRepository {
	return &LearningRepository{DB: db}
}

// ListChapters returns section nodes first, then children, then top-level
// orphans, each group ordered by its sibling index.
func (r *LearningRepository) ListChapters() ([]model.LearningChapter, error) {
	var chapters []model.LearningChapter
	err := r.DB.Order(`CASE
		WHEN badge = 'Раздел' AND (parent_slug IS NULL OR parent_slug = '') THEN 0
		WHEN parent_slug IS NOT NULL AND parent_slug != '' THEN 1
		ELSE 2
	END, order_num, title`).Find(&chapters).Error
	return chapters, err
}

func (r *LearningRepository) FindChapterBySlug(slug string) (*model.LearningChapter, error) {
	var chapter model.LearningChapter
	err := r.DB.Where("slug = ?", slug).First(&chapter).Error
	return &chapter, err
}

func (r *LearningRepository) FindChapterByID(id string) (*model.LearningChapter, error) {
	var chapter model.LearningChapter
	err := r.DB.First(&chapter, "id = ?", id).Error
	return &chapter, err
}

func (r *LearningRepository) CreateChapter(chapter *model.LearningChapter) error {
	return r.DB.Create(chapter).Error
}

func (r *LearningRepository) UpdateChapter(chapter *model.LearningChapter) error {
	return r.DB.Save(chapter).Error
}

func (r *LearningRepository) UpdateChapterOrder(slug string, order int) error {
	return r.DB.Model(&model.LearningChapter{}).
		Where("slug = ?", slug).
		Update("order_num", order).
		Error
}

func (r *LearningRepository) UpdateChapterParent(slug, parentSlug string) error {
	return r.DB.Model(&model.LearningChapter{}).
		Where("slug = ?", slug).
		Update("parent_slug", parentSlug).
		Error
}

// DeleteChapter removes a chapter, every chapter whose parent slug references
// it, and the content blocks of all removed chapters. Deletes are hard so the
// slug can be created again afterwards.
func (r *LearningRepository) DeleteChapter(slug string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var chapter model.LearningChapter
		if err := tx.Where("slug = ?", slug).First(&chapter).Error; err != nil {
			return err
		}

		var children []model.LearningChapter
		if err := tx.Where("parent_slug = ?", chapter.Slug).Find(&children).Error; err != nil {
			return err
		}

		ids := []string{chapter.ID}
		for _, child := range children {
			ids = append(ids, child.ID)
		}

		if err := tx.Unscoped().Where("chapter_id IN ?", ids).Delete(&model.LearningSection{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("parent_slug = ?", chapter.Slug).Delete(&model.LearningChapter{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&chapter).Error
	})
}

// CleanupOrphans deletes chapters that are neither sections nor attached to a
// parent.
func (r *LearningRepository) CleanupOrphans() (int64, error) {
	result := r.DB.Unscoped().Where(
		"(parent_slug IS NULL OR parent_slug = '') AND (badge IS NULL OR badge != ?)",
		model.BadgeSection,
	).Delete(&model.LearningChapter{})
	return result.RowsAffected, result.Error
}

func (r *LearningRepository) ListSections(chapterID string) ([]model.LearningSection, error) {
	var sections []model.LearningSection
	err := r.DB.Where("chapter_id = ?", chapterID).Order("order_num").Find(&sections).Error
	return sections, err
}

func (r *LearningRepository) FindSectionByID(id string) (*model.LearningSection, error) {
	var section model.LearningSection
	err := r.DB.First(&section, "id = ?", id).Error
	return &section, err
}

func (r *LearningRepository) CreateSection(section *model.LearningSection) error {
	return r.DB.Create(section).Error
}

func (r *LearningRepository) UpdateSection(section *model.LearningSection) error {
	return r.DB.Save(section).Error
}

func (r *LearningRepository) DeleteSection(id string) error {
	return r.DB.Unscoped().Where("id = ?", id).Delete(&model.LearningSection{}).Error
}
