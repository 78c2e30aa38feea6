package handler

import (
	"github.com/gofiber/fiber/v2"

	"filevault/internal/service"
)

// TokenHeader carries the session token on every protected endpoint.
const TokenHeader = "X-Token"

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser handles POST /users.
func CreateUser(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		// The body may be absent entirely; the service reports the first
		// missing field.
		_ = c.BodyParser(&req)

		user, err := authSvc.Register(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user.View())
	}
}

// Connect handles GET /connect. Credentials arrive as a Basic
// authorization header; the response carries a fresh session token.
func Connect(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := authSvc.Login(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
	}
}

// Disconnect handles GET /disconnect and invalidates the caller's token.
func Disconnect(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authSvc.Logout(c.UserContext(), c.Get(TokenHeader)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me handles GET /users/me.
func Me(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authSvc.Me(c.UserContext(), c.Get(TokenHeader))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(user.View())
	}
}
