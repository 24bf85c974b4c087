package middleware

import (
	"github.com/gofiber/fiber/v2"

	"tailorshop/internal/domain"
)

func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetCurrentUser(c) == nil {
			return Unauthorized("Authentication required")
		}
		return c.Next()
	}
}

func RequireRole(requiredRole domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("Authentication required")
		}

		if !user.HasRole(requiredRole) {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}
