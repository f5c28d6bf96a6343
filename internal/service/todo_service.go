package service

import (
	"codedrill_backend/internal/model"
	"codedrill_backend/internal/repository"
	"codedrill_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type TodoService struct {
	TodoRepo *repository.TodoRepository
}

func NewTodoService(todoRepo *repository.TodoRepository) *TodoService {
	return &TodoService{TodoRepo: todoRepo}
}

func (s *TodoService) List(userID string) ([]model.Todo, error) {
	return s.TodoRepo.List(userID)
}

func (s *TodoService) Create(userID, text string) (*model.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, util.ErrTextRequired
	}

	todo := &model.Todo{
		UserID: userID,
		Text:   text,
	}
	if err := s.TodoRepo.Create(todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Patch applies only the provided fields.
func (s *TodoService) Patch(id, userID string, text *string, completed *bool) (*model.Todo, error) {
	todo, err := s.TodoRepo.FindByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTodoNotFound
		}
		return nil, err
	}

	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			return nil, util.ErrTextRequired
		}
		todo.Text = trimmed
	}
	if completed != nil {
		todo.Completed = *completed
	}

	if err := s.TodoRepo.Update(todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Delete(id, userID string) error {
	if _, err := s.TodoRepo.FindByID(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTodoNotFound
		}
		return err
	}
	return s.TodoRepo.Delete(id, userID)
}
