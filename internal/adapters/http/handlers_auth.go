package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/geofieldx/geofieldx/internal/core/usecases"
)

// RegisterHandler creates a pending account.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		user, err := deps.Auth.Register(c.Context(), in)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(user)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler verifies credentials and sets the auth cookie.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.Username == "" || req.Password == "" {
			return errBadRequest(c, "username and password are required")
		}

		token, user, err := deps.Auth.Login(c.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, usecases.ErrNotApproved) {
				return errForbidden(c, "account is awaiting approval")
			}
			return errUnauthorized(c, "invalid username or password")
		}

		c.Cookie(&fiber.Cookie{
			Name:     authCookie,
			Value:    token,
			Expires:  time.Now().Add(24 * time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
		})
		return c.JSON(fiber.Map{"token": token, "user": user})
	}
}

// LogoutHandler clears the auth cookie.
func LogoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     authCookie,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
		})
		return c.JSON(fiber.Map{"status": "logged out"})
	}
}

// MeHandler returns the authenticated account.
func MeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		if user == nil {
			return errUnauthorized(c, "not logged in")
		}
		return c.JSON(user)
	}
}
