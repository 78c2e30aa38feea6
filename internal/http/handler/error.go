package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"filevault/internal/http/middleware"
	"filevault/internal/service"
)

// errorPayload defines the standardized error response body for
// infrastructure failures.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeMessage writes the compact `{"error": "..."}` body used by the
// domain contract (auth and file endpoints).
func writeMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// writeServiceError translates service sentinel errors into their wire
// responses. Authentication and authorization failures are intentionally
// indistinguishable, and the public read path reports both as "Not found".
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrMalformedCredentials),
		errors.Is(err, service.ErrInvalidCredentials):
		return writeMessage(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrMissingEmail):
		return writeMessage(c, fiber.StatusBadRequest, "Missing email")
	case errors.Is(err, service.ErrMissingPassword):
		return writeMessage(c, fiber.StatusBadRequest, "Missing password")
	case errors.Is(err, service.ErrEmailTaken):
		return writeMessage(c, fiber.StatusBadRequest, "Already exist")
	case errors.Is(err, service.ErrMissingName):
		return writeMessage(c, fiber.StatusBadRequest, "Missing name")
	case errors.Is(err, service.ErrMissingType):
		return writeMessage(c, fiber.StatusBadRequest, "Missing type")
	case errors.Is(err, service.ErrMissingData):
		return writeMessage(c, fiber.StatusBadRequest, "Missing data")
	case errors.Is(err, service.ErrParentNotFound):
		return writeMessage(c, fiber.StatusBadRequest, "Parent not found")
	case errors.Is(err, service.ErrParentNotFolder):
		return writeMessage(c, fiber.StatusBadRequest, "Parent is not a folder")
	case errors.Is(err, service.ErrNotFound):
		return writeMessage(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrFolderNoContent):
		return writeMessage(c, fiber.StatusBadRequest, "A folder doesn't have content")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
