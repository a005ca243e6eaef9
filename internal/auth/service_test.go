package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teijeiro7/fitmycv/internal/users"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(users.NewMemoryRepo(), 30*time.Minute)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ana@Example.com", "supersecret", "Ana García")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.HashedPassword == "supersecret" || user.HashedPassword == "" {
		t.Fatal("password stored in plaintext or missing")
	}

	token, got, err := svc.Login(ctx, "ana@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || got.ID != user.ID {
		t.Fatalf("unexpected login result: token=%q user=%+v", token, got)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(users.NewMemoryRepo(), 30*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana@example.com", "supersecret", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "ANA@example.com", "othersecret", "")
	if !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(users.NewMemoryRepo(), 30*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana@example.com", "supersecret", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(users.NewMemoryRepo(), 30*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "supersecret", ""); err == nil {
		t.Fatal("expected error for invalid email")
	}
	if _, err := svc.Register(ctx, "ana@example.com", "short", ""); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestLoginOAuthCreatesAndLinks(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := users.NewMemoryRepo()
	svc := NewService(repo, 30*time.Minute)
	ctx := context.Background()

	token, user, err := svc.LoginOAuth(ctx, "google", "sub-123", "ana@example.com", "Ana García")
	if err != nil {
		t.Fatalf("LoginOAuth: %v", err)
	}
	if token == "" || user.OAuthProvider != "google" || !user.IsVerified {
		t.Fatalf("unexpected oauth user: %+v", user)
	}

	// Second login resolves to the same account.
	_, again, err := svc.LoginOAuth(ctx, "google", "sub-123", "ana@example.com", "Ana García")
	if err != nil {
		t.Fatalf("LoginOAuth repeat: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("expected same account, got %s vs %s", again.ID, user.ID)
	}
}
