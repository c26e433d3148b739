package auth

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := NewTokenVerifier("secret", 7*24*time.Hour).WithClock(fixedClock(base))

	user := &User{ID: 42, Email: "ana@studio.test", Role: "photographer"}
	token, err := v.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := v.ParseBearer("Bearer " + token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Email != "ana@studio.test" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != "photographer" {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestParseBearerAcceptsRawToken(t *testing.T) {
	v := NewTokenVerifier("secret", time.Hour)
	token, err := v.Issue(&User{ID: 7, Email: "x@y.test", Role: "editor"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := v.ParseBearer(token)
	if err != nil {
		t.Fatalf("parse without prefix: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user id = %d, want 7", claims.UserID)
	}
}

func TestParseBearerMissing(t *testing.T) {
	v := NewTokenVerifier("secret", time.Hour)
	for _, header := range []string{"", "   ", "Bearer ", "Bearer    "} {
		if _, err := v.ParseBearer(header); !errors.Is(err, ErrMissingCredential) {
			t.Errorf("header %q: err = %v, want ErrMissingCredential", header, err)
		}
	}
}

func TestParseBearerExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := NewTokenVerifier("secret", time.Hour).WithClock(fixedClock(base))
	token, err := v.Issue(&User{ID: 1, Email: "a@b.test", Role: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	v.WithClock(fixedClock(base.Add(time.Hour + time.Second)))
	if _, err := v.ParseBearer("Bearer " + token); !errors.Is(err, ErrExpiredCredential) {
		t.Fatalf("err = %v, want ErrExpiredCredential", err)
	}
}

func TestParseBearerWrongSecret(t *testing.T) {
	issuer := NewTokenVerifier("secret-a", time.Hour)
	verifier := NewTokenVerifier("secret-b", time.Hour)
	token, err := issuer.Issue(&User{ID: 1, Email: "a@b.test", Role: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.ParseBearer("Bearer " + token); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("err = %v, want ErrInvalidCredential", err)
	}
}

func TestParseBearerGarbage(t *testing.T) {
	v := NewTokenVerifier("secret", time.Hour)
	if _, err := v.ParseBearer("Bearer not.a.token"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("err = %v, want ErrInvalidCredential", err)
	}
}
