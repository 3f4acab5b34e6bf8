package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docsportal/internal/http/middleware"
	"docsportal/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// messagePayload is the body of successful calls that return no resource.
type messagePayload struct {
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response. message must be safe to show.
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

// serviceError translates service sentinels to HTTP. Unknown errors are logged with the
// request id and answered with a generic 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired refresh token")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrAccessDenied):
		return writeError(c, fiber.StatusBadRequest, "ACCESS_DENIED", "insufficient rights on document")
	case errors.Is(err, service.ErrUserExists):
		return writeError(c, fiber.StatusBadRequest, "USER_EXISTS", "user with this email or username already exists")
	case errors.Is(err, service.ErrIncorrectPassword):
		return writeError(c, fiber.StatusBadRequest, "INCORRECT_PASSWORD", "current password is incorrect")
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, fiber.StatusBadRequest, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, service.ErrVersionExists):
		return writeError(c, fiber.StatusBadRequest, "VERSION_EXISTS", "version already exists")
	default:
		middleware.LoggerFromCtx(c).Error("request_failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			if status >= fiber.StatusInternalServerError {
				middleware.LoggerFromCtx(c).Error("unhandled_error", zap.Error(err))
			}
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
