package handler

import (
	"strconv"

	"jobtrack/internal/delivery/http/dto"
	"jobtrack/internal/delivery/http/middleware"
	"jobtrack/internal/pkg/response"
	"jobtrack/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AdminHandler struct {
	uc usecase.AdminUsecase
}

func NewAdminHandler(uc usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/settings", h.Settings)
	r.Patch("/settings", h.UpdateSettings)
	r.Get("/users", h.ListUsers)
	r.Patch("/users/:id", h.UpdateUser)
}

func (h *AdminHandler) Settings(c fiber.Ctx) error {
	settings, err := h.uc.Settings(c.Context())
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSiteSettingsResponse(settings))
}

type updateSettingsRequest struct {
	SiteName        *string `json:"site_name"`
	MaintenanceMode *bool   `json:"maintenance_mode"`
}

func (h *AdminHandler) UpdateSettings(c fiber.Ctx) error {
	var req updateSettingsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	settings, err := h.uc.UpdateSettings(c.Context(), usecase.SiteSettingsPatch{
		SiteName:        req.SiteName,
		MaintenanceMode: req.MaintenanceMode,
	})
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSiteSettingsResponse(settings))
}

func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skip", nil, err)
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}

	users, err := h.uc.ListUsers(c.Context(), skip, limit)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAdminUserResponses(users))
}

type updateUserRequest struct {
	IsAdmin  *bool `json:"is_admin"`
	IsActive *bool `json:"is_active"`
}

func (h *AdminHandler) UpdateUser(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	}

	var req updateUserRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, err := h.uc.SetUserFlags(c.Context(), id, usecase.UserFlagsPatch{
		IsAdmin:  req.IsAdmin,
		IsActive: req.IsActive,
	})
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAdminUserResponse(usr))
}

func queryInt(c fiber.Ctx, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
