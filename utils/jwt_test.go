package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "owner", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken(token, "test-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "owner" {
		t.Fatalf("Role = %q, want owner", claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "user", "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(token, "wrong-secret"); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(1, "user", "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(token, "test-secret"); err == nil {
		t.Fatal("expired token verified")
	}
}
