package middleware

import (
	"time"

	"konishi/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ContextLogger attaches a request-scoped zerolog logger to the user context,
// carrying request_id, trace_id and user_id when they are known. It must run
// after the requestid and tracing middleware, and after auth for user_id.
func ContextLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		fields := log.Logger.With()

		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = fields.Str("request_id", rid)
		}
		if tid := observability.TraceID(ctx); tid != "" {
			fields = fields.Str("trace_id", tid)
		}
		if uid := ViewerID(c); uid != 0 {
			fields = fields.Uint("user_id", uid)
		}

		logger := fields.Logger()
		c.SetUserContext(logger.WithContext(ctx))
		return c.Next()
	}
}

// StructuredLogger returns a Fiber middleware logging one line per request
// through the request logger.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger := zerolog.Ctx(c.UserContext())
		var event *zerolog.Event
		if err != nil {
			event = logger.Error().Err(err)
		} else {
			event = logger.Info()
		}
		event.
			Int("status", c.Response().StatusCode()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Dur("latency", time.Since(start)).
			Str("user_agent", c.Get(fiber.HeaderUserAgent)).
			Msg("request processed")

		return err
	}
}
