package handler

import (
	"strconv"

	"jobtrack/internal/delivery/http/dto"
	"jobtrack/internal/delivery/http/middleware"
	"jobtrack/internal/pkg/response"
	"jobtrack/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type DashboardHandler struct {
	uc usecase.DashboardUsecase
}

func NewDashboardHandler(uc usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/stats", h.Stats)
	r.Get("/upcoming-interviews", h.UpcomingInterviews)
}

func (h *DashboardHandler) Stats(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	stats, err := h.uc.Stats(c.Context(), usr.ID)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStatsResponse(stats))
}

func (h *DashboardHandler) UpcomingInterviews(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 50 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
		}
		limit = v
	}

	rows, err := h.uc.UpcomingInterviews(c.Context(), usr.ID, limit)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUpcomingInterviewResponses(rows))
}
