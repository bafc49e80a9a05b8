package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"jobtrack/internal/domain/user"
	"jobtrack/internal/pkg/jwt"
	"jobtrack/internal/repository"
)

var (
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserInactive rejects logins for accounts an admin has deactivated.
	ErrUserInactive = errors.New("user account is deactivated")

	// ErrDevLoginDisabled is returned when no admin emails are configured;
	// the development login endpoint only works against an allowlist.
	ErrDevLoginDisabled = errors.New("development login is disabled")
)

// AuthProfile is the identity handed back by an OAuth provider.
type AuthProfile struct {
	Email      string
	Name       string
	AvatarURL  string
	Provider   string
	ProviderID string
}

type AuthUsecase interface {
	Login(ctx context.Context, p AuthProfile) (user.User, string, error)
	DevLogin(ctx context.Context, email string) (user.User, string, error)
}

// Auth resolves an OAuth profile to a local account and issues a token.
// Admin status is re-derived from the allowlist on every login, so adding an
// email to the allowlist takes effect the next time that person signs in.
type Auth struct {
	users        repository.UserRepository
	jwt          jwt.Service
	isAdminEmail func(string) bool
	devEnabled   bool
	logger       *log.Logger
}

func NewAuthUsecase(users repository.UserRepository, jwtSvc jwt.Service, isAdminEmail func(string) bool, devEnabled bool, logger *log.Logger) *Auth {
	return &Auth{users: users, jwt: jwtSvc, isAdminEmail: isAdminEmail, devEnabled: devEnabled, logger: logger}
}

func (u *Auth) Login(ctx context.Context, p AuthProfile) (user.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return user.User{}, "", ErrInvalidInput
	}

	usr, err := u.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !usr.IsActive {
			return user.User{}, "", ErrUserInactive
		}
		usr.Name = p.Name
		usr.AvatarURL = p.AvatarURL
		usr.Provider = p.Provider
		usr.ProviderID = p.ProviderID
		// Allowlist membership upgrades, never downgrades. An admin who was
		// promoted through the API keeps the role even off the list.
		if u.isAdminEmail(email) {
			usr.IsAdmin = true
		}
		usr, err = u.users.UpdateLogin(ctx, usr)
		if err != nil {
			return user.User{}, "", err
		}
	case errors.Is(err, repository.ErrUserNotFound):
		usr, err = u.users.Create(ctx, user.User{
			Email:      email,
			Name:       p.Name,
			AvatarURL:  p.AvatarURL,
			Provider:   p.Provider,
			ProviderID: p.ProviderID,
			IsAdmin:    u.isAdminEmail(email),
			IsActive:   true,
		})
		if err != nil {
			return user.User{}, "", err
		}
		u.logger.Printf("auth=signup user_id=%s provider=%s admin=%t", usr.ID, p.Provider, usr.IsAdmin)
	default:
		return user.User{}, "", err
	}

	token, err := u.jwt.Issue(usr.ID)
	if err != nil {
		return user.User{}, "", ErrInternal
	}

	u.logger.Printf("auth=login user_id=%s provider=%s", usr.ID, p.Provider)
	return usr, token, nil
}

// DevLogin bypasses OAuth for local development. It is only available when
// an admin allowlist exists, and mints the same kind of token as Login.
func (u *Auth) DevLogin(ctx context.Context, email string) (user.User, string, error) {
	if !u.devEnabled {
		return user.User{}, "", ErrDevLoginDisabled
	}
	return u.Login(ctx, AuthProfile{
		Email:      email,
		Name:       "Dev User",
		Provider:   "google",
		ProviderID: strings.ToLower(strings.TrimSpace(email)),
	})
}

var _ AuthUsecase = (*Auth)(nil)
