package serverutils

import (
	"raw-ai-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders any error a handler returns. Server-side failures are logged.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		if status := StatusOf(err); status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": status,
				"error":  err.Error(),
			})
		}
		return WriteError(ctx, err)
	}
}

// ErrorHandler is the fiber.Config fallback for errors raised outside the middleware chain.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	return WriteError(ctx, err)
}
