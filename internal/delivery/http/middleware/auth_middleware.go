package middleware

import (
	"errors"
	"strings"

	"jobtrack/internal/domain/user"
	"jobtrack/internal/pkg/jwt"
	"jobtrack/internal/repository"

	"github.com/gofiber/fiber/v3"
)

const ctxUserKey = "current_user"

// AuthMiddleware verifies the bearer token and loads the acting user. The
// user row is fetched on every request so flag changes (deactivation, admin
// revocation) take effect immediately, not at token expiry.
type AuthMiddleware struct {
	jwt   jwt.Service
	users repository.UserRepository
}

func NewAuthMiddleware(jwtSvc jwt.Service, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, users: users}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.Verify(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		usr, err := m.users.GetByID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
			}
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		if !usr.IsActive {
			return NewAppError(fiber.StatusForbidden, "Account is deactivated", nil, nil)
		}

		c.Locals(ctxUserKey, usr)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by the auth middleware.
func CurrentUser(c fiber.Ctx) (user.User, bool) {
	usr, ok := c.Locals(ctxUserKey).(user.User)
	return usr, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
