package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/auth"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/users"
)

// RequireOwner gates the admin console to the owner role.
func RequireOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.CallerRole(c) != users.RoleOwner {
			return fiber.NewError(fiber.StatusForbidden, "owner role required")
		}
		return c.Next()
	}
}
