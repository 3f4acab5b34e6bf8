package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoggerLocalKey holds the request-scoped *zap.Logger in Fiber's context locals.
const LoggerLocalKey = "logger"

// Logger logs one line per request with request_id, method, path, status and latency
// (milliseconds). Handlers can pick up the request-scoped logger via LoggerFromCtx.
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		reqLog := log.With(zap.String("request_id", rid))
		c.Locals(LoggerLocalKey, reqLog)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The global error handler runs after us and decides the final status.
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		reqLog.Info("http_request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		)
		return err
	}
}

// LoggerFromCtx returns the logger stored by Logger, or a no-op logger.
func LoggerFromCtx(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(LoggerLocalKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
