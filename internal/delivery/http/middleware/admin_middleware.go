package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// AdminMiddleware must run after AuthMiddleware; it only checks the flag on
// the already-loaded user.
type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

func (m *AdminMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		usr, ok := CurrentUser(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if !usr.IsAdmin {
			return NewAppError(fiber.StatusForbidden, "Admin access required", nil, nil)
		}
		return c.Next()
	}
}
