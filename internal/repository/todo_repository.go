package repository

import (
	"codedrill_backend/internal/model"

	"gorm.io/gorm"
)

type TodoRepository struct {
	DB *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

func (r *TodoRepository) List(userID string) ([]model.Todo, error) {
	var todos []model.Todo
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&todos).Error
	return todos, err
}

func (r *TodoRepository) Create(todo *model.Todo) error {
	return r.DB.Create(todo).Error
}

func (r *TodoRepository) FindByID(id, userID string) (*model.Todo, error) {
	var todo model.Todo
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&todo).Error
	return &todo, err
}

func (r *TodoRepository) Update(todo *model.Todo) error {
	return r.DB.Save(todo).Error
}

func (r *TodoRepository) Delete(id, userID string) error {
	return r.DB.Unscoped().Where("id = ? AND user_id = ?", id, userID).Delete(&model.Todo{}).Error
}
