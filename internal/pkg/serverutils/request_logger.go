package serverutils

import (
	"errors"
	"time"

	"disease-predictor-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func RequestLogger(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			// the error handler has not run yet
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		log.Debug("HTTP", ctx.Method()+" "+ctx.Path(), map[string]interface{}{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         ctx.IP(),
		})
		return err
	}
}
