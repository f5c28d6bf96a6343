package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProblemNotFound    = errors.New("problem not found")
	ErrTestNotFound       = errors.New("test not found")
	ErrTodoNotFound       = errors.New("todo not found")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrTextRequired       = errors.New("text required")
)
