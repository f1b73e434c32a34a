package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
)

// Logger logs one structured record per HTTP request with
// request_id, method, path, status and latency in milliseconds.
// subject is added for authenticated requests and trace_id when the
// request carries a sampled span.
func Logger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		attrs := []any{
			"request_id", RequestIDFrom(c),
			"method", c.Method(),
			// Path only, without the query string.
			"path", c.Path(),
			"status", status,
			"latency", float64(time.Since(start).Microseconds()) / 1000,
		}
		if claims := ClaimsFrom(c); claims != nil {
			attrs = append(attrs, "subject", claims.Subject)
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.UserContext(), level, "http_request", attrs...)

		return err
	}
}
