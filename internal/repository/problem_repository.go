package repository

import (
	"codedrill_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

func (r *ProblemRepository) List() ([]model.Problem, error) {
	var problems []model.Problem
	err := r.DB.Order("title").Find(&problems).Error
	return problems, err
}

func (r *ProblemRepository) ListPublished() ([]model.Problem, error) {
	var problems []model.Problem
	err := r.DB.Where("published = ?", true).Order("title").Find(&problems).Error
	return problems, err
}

func (r *ProblemRepository) FindBySlug(slug string) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.Where("slug = ?", slug).First(&problem).Error
	return &problem, err
}

func (r *ProblemRepository) Create(problem *model.Problem) error {
	return r.DB.Create(problem).Error
}

func (r *ProblemRepository) Update(problem *model.Problem) error {
	return r.DB.Save(problem).Error
}

// Delete removes a problem and its fixture tests. Deletes are hard so the
// slug can be created again afterwards.
func (r *ProblemRepository) Delete(slug string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var problem model.Problem
		if err := tx.Where("slug = ?", slug).First(&problem).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("problem_id = ?", problem.ID).Delete(&model.ProblemTest{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&problem).Error
	})
}

func (r *ProblemRepository) ListTests(problemID string) ([]model.ProblemTest, error) {
	var tests []model.ProblemTest
	err := r.DB.Where("problem_id = ?", problemID).Order("order_index").Find(&tests).Error
	return tests, err
}

func (r *ProblemRepository) FindTestByID(id string) (*model.ProblemTest, error) {
	var test model.ProblemTest
	err := r.DB.First(&test, "id = ?", id).Error
	return &test, err
}

func (r *ProblemRepository) CreateTest(test *model.ProblemTest) error {
	return r.DB.Create(test).Error
}

func (r *ProblemRepository) UpdateTest(test *model.ProblemTest) error {
	return r.DB.Save(test).Error
}

func (r *ProblemRepository) DeleteTest(id string) error {
	return r.DB.Unscoped().Where("id = ?", id).Delete(&model.ProblemTest{}).Error
}
