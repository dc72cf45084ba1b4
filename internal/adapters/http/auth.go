package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

// authCookie is the cookie the browser client stores the JWT in. API clients
// may send the same token as a Bearer header instead.
const authCookie = "geofieldx_token"

// RequireAuth verifies the JWT from the auth cookie or Authorization header
// and stores the account in Locals("user") for handlers downstream.
func RequireAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(authCookie)
		if token == "" {
			header := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			return errUnauthorized(c, "not logged in")
		}

		user, err := deps.Auth.VerifyToken(c.Context(), token)
		if err != nil {
			return errUnauthorized(c, "invalid or expired token")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// RequireSupervisor gates a route to supervisor accounts. Must run after
// RequireAuth.
func RequireSupervisor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		if user == nil {
			return errUnauthorized(c, "not logged in")
		}
		if user.Role != domain.RoleSupervisor {
			return errForbidden(c, "supervisor role required")
		}
		return c.Next()
	}
}

// currentUser returns the account RequireAuth stored, or nil.
func currentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals("user").(*domain.User)
	return user
}
