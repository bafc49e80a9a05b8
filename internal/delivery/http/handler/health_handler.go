package handler

import (
	"context"
	"time"

	"jobtrack/internal/database"
	"jobtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db database.DB
}

func NewHealthHandler(db database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	}

	data := map[string]string{"status": status, "database": dbStatus}
	if status != "ok" {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageError, data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
