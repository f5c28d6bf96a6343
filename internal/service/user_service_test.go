package service

import (
	"errors"
	"testing"

	"codedrill_backend/internal/model"
	"codedrill_backend/internal/repository"
	"codedrill_backend/internal/util"
)

func newUsers(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(repository.NewUserRepository(newTestDB(t)), nil)
}

func TestUpdateProfile_KeepsUnsetFields(t *testing.T) {
	s := newUsers(t)

	user := &model.User{Name: "Аня", Email: "anya@example.com", Password: "x", AvatarURL: "/uploads/a.png"}
	if err := s.UserRepo.Create(user); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.UpdateProfile(user.ID, "Анна", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Анна" {
		t.Fatalf("name = %q, want Анна", updated.Name)
	}
	if updated.AvatarURL != "/uploads/a.png" {
		t.Fatalf("empty avatar input must not clear the stored URL, got %q", updated.AvatarURL)
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	s := newUsers(t)
	if _, err := s.UpdateProfile("no-such-id", "Имя", ""); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetByID_UnknownUser(t *testing.T) {
	s := newUsers(t)
	if _, err := s.GetByID("no-such-id"); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
