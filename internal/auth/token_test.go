package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 24*time.Hour)

	token, exp, err := tm.GenerateToken(7, "maria@salon.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) < 23*time.Hour {
		t.Fatalf("expiry too short: %v", exp)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if userID != 7 {
		t.Fatalf("expected subject 7, got %d", userID)
	}
	if claims.Email != "maria@salon.com" {
		t.Fatalf("expected email claim, got %s", claims.Email)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", time.Hour).GenerateToken(7, "maria@salon.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).ParseToken(token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tm.ttl = -time.Minute

	token, _, err := tm.GenerateToken(7, "maria@salon.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password not hashed")
	}
	if err := ComparePassword(hash, "s3cret"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}
