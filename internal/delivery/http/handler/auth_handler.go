package handler

import (
	"errors"
	"fmt"

	"jobtrack/internal/delivery/http/dto"
	"jobtrack/internal/delivery/http/middleware"
	"jobtrack/internal/infrastructure/oauth"
	"jobtrack/internal/pkg/response"
	"jobtrack/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// AuthHandler drives the OAuth redirect dance. The provider name doubles as
// the state parameter, so the callback knows which provider to finish with.
type AuthHandler struct {
	uc          usecase.AuthUsecase
	providers   *oauth.Registry
	frontendURL string
}

func NewAuthHandler(uc usecase.AuthUsecase, providers *oauth.Registry, frontendURL string) *AuthHandler {
	return &AuthHandler{uc: uc, providers: providers, frontendURL: frontendURL}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/google", h.Begin)
	r.Get("/linkedin", h.Begin)
	r.Get("/callback", h.Callback)
	r.Post("/dev-login", h.DevLogin)
	r.Get("/me", h.Me, authMw)
}

// Begin redirects the browser to the provider's consent screen. The route
// path names the provider.
func (h *AuthHandler) Begin(c fiber.Ctx) error {
	name := providerFromPath(c.Path())
	p, ok := h.providers.Get(name)
	if !ok {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, fmt.Sprintf("%s login not configured", name), nil, nil)
	}
	return c.Redirect().Status(fiber.StatusFound).To(p.AuthURL(name))
}

// Callback exchanges the code, logs the user in, and hands the token to the
// frontend in the URL fragment so it never hits server logs.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing authorization code", nil, nil)
	}

	p, ok := h.providers.Get(state)
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid state", nil, nil)
	}

	profile, err := p.Exchange(c.Context(), code)
	if err != nil {
		if errors.Is(err, oauth.ErrNoEmail) {
			return middleware.NewAppError(fiber.StatusBadRequest, fmt.Sprintf("Email not provided by %s", p.Name()), nil, err)
		}
		if errors.Is(err, oauth.ErrNotConfigured) {
			return middleware.NewAppError(fiber.StatusServiceUnavailable, fmt.Sprintf("%s login not configured", p.Name()), nil, err)
		}
		return middleware.NewAppError(fiber.StatusBadGateway, "OAuth exchange failed", nil, err)
	}

	_, token, err := h.uc.Login(c.Context(), usecase.AuthProfile{
		Email:      profile.Email,
		Name:       profile.Name,
		AvatarURL:  profile.AvatarURL,
		Provider:   profile.Provider,
		ProviderID: profile.ProviderID,
	})
	if err != nil {
		return mapAuthError(err)
	}

	return c.Redirect().Status(fiber.StatusFound).To(h.frontendURL + "/auth/callback#token=" + token)
}

type devLoginRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) DevLogin(c fiber.Ctx) error {
	req := devLoginRequest{Email: "dev@example.com"}
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	usr, token, err := h.uc.DevLogin(c.Context(), req.Email)
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTokenResponse(token, usr))
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func providerFromPath(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrDevLoginDisabled):
		return middleware.NewAppError(fiber.StatusNotFound, "Dev login disabled", nil, err)
	case errors.Is(err, usecase.ErrUserInactive):
		return middleware.NewAppError(fiber.StatusForbidden, "Account is deactivated", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
