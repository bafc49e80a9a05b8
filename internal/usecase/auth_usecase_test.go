package usecase

import (
	"context"
	"errors"
	"testing"

	"jobtrack/internal/domain/user"
	"jobtrack/internal/pkg/jwt"

	"github.com/google/uuid"
)

type stubJWT struct {
	token string
	err   error
}

func (s stubJWT) Issue(uuid.UUID) (string, error)  { return s.token, s.err }
func (s stubJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

func allowlist(emails ...string) func(string) bool {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}
	return func(email string) bool {
		_, ok := set[email]
		return ok
	}
}

func TestAuthLoginCreatesUserOnFirstSignIn(t *testing.T) {
	users := newMockUserRepo()
	auth := NewAuthUsecase(users, stubJWT{token: "tok"}, allowlist("admin@example.com"), true, testLogger())

	usr, token, err := auth.Login(context.Background(), AuthProfile{
		Email:      "  New.Person@Example.COM ",
		Name:       "New Person",
		Provider:   "google",
		ProviderID: "g-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok" {
		t.Fatalf("expected issued token, got %q", token)
	}
	if usr.Email != "new.person@example.com" {
		t.Fatalf("email must be lowercased and trimmed, got %q", usr.Email)
	}
	if usr.IsAdmin {
		t.Fatalf("non-allowlisted signup must not be admin")
	}
	if !usr.IsActive {
		t.Fatalf("new accounts start active")
	}
	if len(users.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(users.created))
	}
}

func TestAuthLoginAllowlistedSignupIsAdmin(t *testing.T) {
	users := newMockUserRepo()
	auth := NewAuthUsecase(users, stubJWT{token: "tok"}, allowlist("admin@example.com"), true, testLogger())

	usr, _, err := auth.Login(context.Background(), AuthProfile{Email: "admin@example.com", Provider: "google"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usr.IsAdmin {
		t.Fatalf("allowlisted signup must be admin")
	}
}

func TestAuthLoginUpgradesButNeverDowngradesAdmin(t *testing.T) {
	users := newMockUserRepo()
	promoted := user.User{ID: uuid.New(), Email: "promoted@example.com", IsAdmin: true, IsActive: true}
	listed := user.User{ID: uuid.New(), Email: "listed@example.com", IsAdmin: false, IsActive: true}
	users.add(promoted)
	users.add(listed)
	auth := NewAuthUsecase(users, stubJWT{token: "tok"}, allowlist("listed@example.com"), true, testLogger())

	// Promoted via the admin API but not on the allowlist: stays admin.
	usr, _, err := auth.Login(context.Background(), AuthProfile{Email: promoted.Email, Provider: "google"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usr.IsAdmin {
		t.Fatalf("login must not downgrade an existing admin")
	}

	// On the allowlist but not yet admin: upgraded on login.
	usr, _, err = auth.Login(context.Background(), AuthProfile{Email: listed.Email, Provider: "google"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usr.IsAdmin {
		t.Fatalf("allowlisted login must upgrade to admin")
	}
}

func TestAuthLoginRefreshesProfile(t *testing.T) {
	users := newMockUserRepo()
	existing := user.User{ID: uuid.New(), Email: "person@example.com", Name: "Old Name", IsActive: true}
	users.add(existing)
	auth := NewAuthUsecase(users, stubJWT{token: "tok"}, allowlist(), true, testLogger())

	usr, _, err := auth.Login(context.Background(), AuthProfile{
		Email:      existing.Email,
		Name:       "New Name",
		AvatarURL:  "https://cdn.example.com/a.png",
		Provider:   "linkedin",
		ProviderID: "li-9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usr.Name != "New Name" || usr.AvatarURL != "https://cdn.example.com/a.png" {
		t.Fatalf("profile fields must refresh on login, got %+v", usr)
	}
	if usr.Provider != "linkedin" || usr.ProviderID != "li-9" {
		t.Fatalf("provider fields must refresh on login, got %+v", usr)
	}
	if len(users.updated) != 1 {
		t.Fatalf("expected 1 login update, got %d", len(users.updated))
	}
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	users := newMockUserRepo()
	users.add(user.User{ID: uuid.New(), Email: "blocked@example.com", IsActive: false})
	auth := NewAuthUsecase(users, stubJWT{token: "tok"}, allowlist(), true, testLogger())

	_, _, err := auth.Login(context.Background(), AuthProfile{Email: "blocked@example.com", Provider: "google"})
	if !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthLoginEmptyEmail(t *testing.T) {
	auth := NewAuthUsecase(newMockUserRepo(), stubJWT{token: "tok"}, allowlist(), true, testLogger())

	_, _, err := auth.Login(context.Background(), AuthProfile{Email: "  ", Provider: "google"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthDevLoginDisabledWithoutAllowlist(t *testing.T) {
	auth := NewAuthUsecase(newMockUserRepo(), stubJWT{token: "tok"}, allowlist(), false, testLogger())

	_, _, err := auth.DevLogin(context.Background(), "dev@example.com")
	if !errors.Is(err, ErrDevLoginDisabled) {
		t.Fatalf("expected ErrDevLoginDisabled, got %v", err)
	}
}

func TestAuthDevLoginMintsGoogleIdentity(t *testing.T) {
	users := newMockUserRepo()
	auth := NewAuthUsecase(users, stubJWT{token: "tok"}, allowlist("dev@example.com"), true, testLogger())

	usr, token, err := auth.DevLogin(context.Background(), "Dev@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok" {
		t.Fatalf("expected issued token, got %q", token)
	}
	if usr.Provider != "google" || usr.ProviderID != "dev@example.com" {
		t.Fatalf("dev login records a google identity keyed by email, got %+v", usr)
	}
	if !usr.IsAdmin {
		t.Fatalf("allowlisted dev login must be admin")
	}
}
