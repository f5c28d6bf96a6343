package service

import (
	"errors"
	"testing"

	"codedrill_backend/internal/model"
	"codedrill_backend/internal/repository"
	"codedrill_backend/internal/util"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), testConfig())
}

func TestRegister_IssuesUsableToken(t *testing.T) {
	s := newAuth(t)

	token, err := s.Register(&model.User{Name: "Ivan", Email: "ivan@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Email != "ivan@example.com" || claims.Role != model.RoleUser {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newAuth(t)

	if _, err := s.Register(&model.User{Name: "a", Email: "dup@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := s.Register(&model.User{Name: "b", Email: "dup@example.com", Password: "other456"})
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	s := newAuth(t)

	if _, err := s.Register(&model.User{Name: "a", Email: "h@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	user, err := s.UserRepo.FindByEmail("h@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user.Password == "secret123" || user.Password == "" {
		t.Fatalf("password stored in clear")
	}
}

func TestLogin(t *testing.T) {
	s := newAuth(t)

	if _, err := s.Register(&model.User{Name: "Ivan", Email: "ivan@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := s.Login("ivan@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || user.Email != "ivan@example.com" {
		t.Fatalf("unexpected login result token=%q user=%+v", token, user)
	}

	if _, _, err := s.Login("ivan@example.com", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := s.Login("nobody@example.com", "secret123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
