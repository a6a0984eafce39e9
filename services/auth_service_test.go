package services

import (
	"errors"
	"testing"
	"time"

	"codegaming/models"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	sessions := NewSessionService(db, testLogger(), "test-secret", time.Hour, time.Hour)
	return NewAuthService(db, testLogger(), sessions)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)

	user, err := svc.Register(&RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.Role != models.RolePlayer {
		t.Errorf("new users must start as players, got %q", user.Role)
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("password stored in plaintext")
	}

	loggedIn, token, err := svc.Login(&LoginRequest{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Error("login returned wrong user")
	}
	if token == "" {
		t.Error("login returned empty token")
	}

	// Login by email works too.
	if _, _, err := svc.Login(&LoginRequest{Username: "alice@example.com", Password: "correct-horse"}); err != nil {
		t.Errorf("login by email failed: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)

	if _, err := svc.Register(&RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := svc.Login(&LoginRequest{Username: "bob", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(&LoginRequest{Username: "nobody", Password: "hunter22"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newAuthFixture(t)

	if _, err := svc.Register(&RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, err := svc.Register(&RegisterRequest{Username: "carol", Email: "other@example.com", Password: "password1"})
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate username err = %v, want ErrUserExists", err)
	}
	_, err = svc.Register(&RegisterRequest{Username: "carol2", Email: "carol@example.com", Password: "password1"})
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate email err = %v, want ErrUserExists", err)
	}
}
