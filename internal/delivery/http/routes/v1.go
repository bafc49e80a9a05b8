package routes

import (
	"github.com/gofiber/fiber/v3"
)

func registerV1(r fiber.Router, reg *Registry) {
	if r == nil {
		return
	}

	authMw := reg.AuthMw.Middleware()

	reg.Auth.RegisterRoutes(r.Group("/auth"), authMw)

	protected := r.Group("", authMw)
	reg.Applications.RegisterRoutes(protected.Group("/applications"))
	reg.Jobs.RegisterRoutes(protected.Group("/jobs"))
	reg.Dashboard.RegisterRoutes(protected.Group("/dashboard"))

	admin := protected.Group("/admin", reg.AdminMw.Middleware())
	reg.Admin.RegisterRoutes(admin)
}
