package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword("wrong password", hash) {
		t.Fatal("did not expect wrong password to verify")
	}
}

func TestHashPasswordRejectsBlank(t *testing.T) {
	if _, err := HashPassword("   "); err == nil {
		t.Fatal("expected error for blank password")
	}
}

func TestVerifyPasswordRejectsBlankInputs(t *testing.T) {
	if VerifyPassword("", "hash") {
		t.Fatal("blank password must not verify")
	}
	if VerifyPassword("password", "  ") {
		t.Fatal("blank hash must not verify")
	}
}

func TestNormalizeUsername(t *testing.T) {
	if got := NormalizeUsername("  Maya "); got != "maya" {
		t.Fatalf("unexpected normalized username: %q", got)
	}
}

func TestNewSessionToken(t *testing.T) {
	first, err := NewSessionToken()
	if err != nil {
		t.Fatalf("new session token: %v", err)
	}
	second, err := NewSessionToken()
	if err != nil {
		t.Fatalf("new session token: %v", err)
	}
	if len(first) != 64 || strings.TrimSpace(first) == "" {
		t.Fatalf("unexpected token: %q", first)
	}
	if first == second {
		t.Fatal("expected unique tokens")
	}
}
