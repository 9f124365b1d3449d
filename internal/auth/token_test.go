package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("unit-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, expiresAt, err := tm.Sign("user-1", "user1@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.SubjectID != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.SubjectID)
	}
	if claims.Email != "user1@example.com" {
		t.Fatalf("expected email user1@example.com, got %q", claims.Email)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	tm, err := NewTokenManager("unit-test-secret", time.Nanosecond)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, _, err := tm.Sign("user-1", "user1@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := tm.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyBadSignature(t *testing.T) {
	signer, err := NewTokenManager("secret-a", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	verifier, err := NewTokenManager("secret-b", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, _, err := signer.Sign("user-1", "user1@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	tm, err := NewTokenManager("unit-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := tm.Verify(raw); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("token %q: expected ErrMalformedToken, got %v", raw, err)
		}
	}
}

func TestMissingSecretRejectedAtConstruction(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
