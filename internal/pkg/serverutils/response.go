// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"errors"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	MessageInternalError = "Internal Server Error"
	MessageUserNotFound  = "User not found"
)

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

// Text answers with a plain-text body, the way the form pages report
// validation problems.
func Text(ctx *fiber.Ctx, status int, message string) error {
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return ctx.Status(status).SendString(message)
}

// ErrorHandler is the app-wide fallback. Framework errors keep their status;
// anything else is logged and reported as a bare 500.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return Text(ctx, fiberErr.Code, fiberErr.Message)
		}
		if errors.Is(err, entity.ErrUserNotFound) {
			return Text(ctx, fiber.StatusNotFound, MessageUserNotFound)
		}

		log.Error("HTTP", "Request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
		return Text(ctx, fiber.StatusInternalServerError, MessageInternalError)
	}
}
