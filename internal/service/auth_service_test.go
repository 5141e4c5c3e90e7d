package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/testutil"
)

func TestAuthenticateUser_NewUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewAuthService(userRepo)

	name := "Test User"
	result, err := svc.AuthenticateUser("auth0|12345", "test@example.com", &name, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.IsNewUser {
		t.Error("expected IsNewUser to be true")
	}
	if result.User.Email != "test@example.com" {
		t.Errorf("email = %q", result.User.Email)
	}
	if result.User.Name == nil || *result.User.Name != name {
		t.Errorf("name = %v", result.User.Name)
	}
}

func TestAuthenticateUser_ExistingUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewAuthService(userRepo)

	existing := &domain.User{
		ID:        uuid.New(),
		Auth0ID:   "auth0|12345",
		Email:     "test@example.com",
		CreatedAt: time.Now(),
	}
	userRepo.AddUser(existing)

	result, err := svc.AuthenticateUser("auth0|12345", "test@example.com", nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.IsNewUser {
		t.Error("expected IsNewUser to be false")
	}
	if result.User.ID != existing.ID {
		t.Errorf("expected same user, got %s", result.User.ID)
	}
}

func TestGetUserByAuth0ID_NotFound(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewAuthService(userRepo)

	_, err := svc.GetUserByAuth0ID("auth0|missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUserByID(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewAuthService(userRepo)

	user := &domain.User{ID: uuid.New(), Auth0ID: "auth0|1", Email: "a@b.c"}
	userRepo.AddUser(user)

	got, err := svc.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Auth0ID != user.Auth0ID {
		t.Errorf("auth0 ID = %q", got.Auth0ID)
	}
}
