package middleware

import (
	"strings"

	"storefront/internal/apperror"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// TokenValidator is satisfied by services.AuthService.
type TokenValidator interface {
	ValidateToken(tokenString string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Unauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return apperror.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			logging.FromContext(c.UserContext()).Debug("jwt validation failed", "error", err)
			return apperror.Unauthorized("Invalid or expired token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)

		l := logging.FromContext(c.UserContext()).With("user_id", claims.UserID)
		c.SetUserContext(logging.IntoContext(c.UserContext(), l))

		return c.Next()
	}
}

// AdminOnly rejects authenticated users without the admin role. It must run
// after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals(LocalRole).(string); role != models.RoleAdmin {
			return apperror.Forbidden("Admin access required")
		}
		return c.Next()
	}
}

// UserID returns the id stored by AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// IsAdmin reports whether the authenticated user has the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(LocalRole).(string)
	return role == models.RoleAdmin
}
