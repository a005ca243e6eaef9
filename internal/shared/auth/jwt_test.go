package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifyJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "user-1", Email: "a@b.com", Name: "Ada"}, time.Hour)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "user-1" {
		t.Fatalf("expected sub user-1, got %q", claims.Sub)
	}
	if claims.Email != "a@b.com" {
		t.Fatalf("expected email a@b.com, got %q", claims.Email)
	}
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "user-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := SignJWT(Claims{Sub: "user-1"}, time.Hour)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-two")
	if _, err := VerifyJWT(token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestSetSecretOverridesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	SetSecret("config-secret")
	t.Cleanup(func() { SetSecret("") })

	token, err := SignJWT(Claims{Sub: "user-1"}, time.Hour)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(token); err != nil {
		t.Fatalf("VerifyJWT with configured secret: %v", err)
	}

	// Dropping the configured secret falls back to the env value, which
	// must no longer verify the token.
	SetSecret("")
	if _, err := VerifyJWT(token); err == nil {
		t.Fatal("expected verification failure under env secret")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("hash must not equal plaintext")
	}
	if err := VerifyPassword("hunter22", hash); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword("wrong", hash); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
