package routes

import (
	"jobtrack/internal/delivery/http/handler"
	"jobtrack/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Registry wires handlers onto the fiber app. Handlers are built by the app
// container; the registry only decides paths and which middleware guards
// each group.
type Registry struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Applications *handler.ApplicationHandler
	Jobs         *handler.JobsHandler
	Dashboard    *handler.DashboardHandler
	Admin        *handler.AdminHandler

	AuthMw  *middleware.AuthMiddleware
	AdminMw *middleware.AdminMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)

	api := app.Group("/api")
	registerV1(api.Group("/v1"), r)
}
