package middleware

import (
	"log/slog"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger attaches a request-scoped logger to the user context and logs
// each completed request. It must run after the requestid middleware.
func RequestLogger(base *slog.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		logger := base.With(
			"request_id", ctx.GetRespHeader(fiber.HeaderXRequestID),
			"method", ctx.Method(),
			"path", ctx.Path(),
		)
		ctx.SetUserContext(logging.With(ctx.UserContext(), logger))

		err := ctx.Next()

		status := ctx.Response().StatusCode()
		attrs := []any{"status", status, "latency", time.Since(start).String()}
		switch {
		case status >= fiber.StatusInternalServerError:
			logging.From(ctx.UserContext()).Error("request completed", attrs...)
		case status >= fiber.StatusBadRequest:
			logging.From(ctx.UserContext()).Warn("request completed", attrs...)
		default:
			logging.From(ctx.UserContext()).Info("request completed", attrs...)
		}
		return err
	}
}
