package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"docarchive/internal/domain"
	"docarchive/internal/http/middleware"
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

// messageResponse is the body of successful deletes and resets.
type messageResponse struct {
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response.
// message must be safe to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps domain errors to their status and code. Anything else is
// logged with the request id and reported as a generic 500.
func writeServiceError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	var he domain.HTTPError
	if errors.As(err, &he) {
		return writeError(c, he.StatusCode(), he.Code(), he.Error())
	}
	logger.ErrorContext(c.UserContext(), "request failed",
		"request_id", middleware.RequestIDFrom(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return writeServiceError(c, logger, err)
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, fe.Code, "UNAUTHORIZED", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, fe.Code, "TOO_MANY_REQUESTS", fe.Message)
		case fiber.StatusServiceUnavailable:
			return writeError(c, fe.Code, "SERVICE_UNAVAILABLE", "dependency unavailable")
		default:
			if fe.Code < fiber.StatusInternalServerError {
				return writeError(c, fe.Code, "BAD_REQUEST", fe.Message)
			}
			logger.ErrorContext(c.UserContext(), "request failed",
				"request_id", middleware.RequestIDFrom(c),
				"status", fe.Code,
				"error", fe.Message,
			)
			return writeError(c, fe.Code, "INTERNAL_ERROR", "internal server error")
		}
	}
}
