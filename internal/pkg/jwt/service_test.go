package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("expected subject %s, got %s", userID, claims.Subject)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.Issue(uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewHMACService("secret-a", time.Hour).Issue(uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewHMACService("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)

	c := Claims{UserID: uuid.New()}
	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, c)
	token, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for alg none, got %v", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Verify(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestIssueRequiresSecretAndExpiry(t *testing.T) {
	if _, err := NewHMACService("", time.Hour).Issue(uuid.New()); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid without a secret, got %v", err)
	}
	if _, err := NewHMACService("test-secret", 0).Issue(uuid.New()); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid without an expiry, got %v", err)
	}
}
