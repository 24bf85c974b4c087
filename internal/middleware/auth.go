package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tailorshop/internal/domain"
	"tailorshop/internal/service/auth"
)

const (
	UserContextKey   = "user"
	UserIDContextKey = "user_id"
)

// Authenticate binds the request principal when a valid bearer token is
// present and lets the request through regardless. Protected routes add
// RequireAuthenticated or RequireRole behind it; public routes read the
// principal opportunistically.
//
// Token lookup order: Authorization header, then the "token" query
// parameter, then the "access_token" cookie. The first non-empty source
// wins; a failed resolution does not fall through to the next source.
func Authenticate(authSvc auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetCurrentUser(c) != nil {
			return c.Next()
		}

		tokenString := ExtractToken(c)
		if tokenString == "" {
			return c.Next()
		}

		user, err := authSvc.ResolvePrincipal(c.Context(), tokenString)
		if err != nil {
			log.Printf("auth: could not resolve principal: %v", err)
			return c.Next()
		}
		if user == nil {
			return c.Next()
		}

		c.Locals(UserContextKey, user)
		c.Locals(UserIDContextKey, user.ID)

		return c.Next()
	}
}

// ExtractToken pulls the bearer token from the request without validating it.
// Shared with the WebSocket handshake.
func ExtractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}

	if tokenParam := c.Query("token"); tokenParam != "" {
		return tokenParam
	}

	return c.Cookies("access_token")
}

func GetCurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func GetCurrentUserID(c *fiber.Ctx) int64 {
	userID, ok := c.Locals(UserIDContextKey).(int64)
	if !ok {
		return 0
	}
	return userID
}
