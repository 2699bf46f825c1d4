package serverutils

import (
	"errors"

	"raw-ai-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) *Response[T] {
	return &Response[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *Response[any] {
	return &Response[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ErrorBody renders err as {"error": ...}. Policy denials also carry the fields
// the client needs to pick a prompt.
func ErrorBody(err error) fiber.Map {
	body := fiber.Map{"error": apperror.PublicMessage(err)}

	var (
		quota   *apperror.QuotaExceededError
		auth    *apperror.AuthRequiredError
		upgrade *apperror.UpgradeRequiredError
		fe      *fiber.Error
	)
	switch {
	case errors.As(err, &quota):
		body["limitReached"] = true
		body["remaining"] = quota.Remaining
	case errors.As(err, &auth):
		body["requiresAuth"] = true
		body["remaining"] = auth.Remaining
	case errors.As(err, &upgrade):
		body["requiresUpgrade"] = true
		body["requiredPlan"] = upgrade.RequiredPlan
	case errors.As(err, &fe):
		body["error"] = fe.Message
	}
	return body
}

// StatusOf also understands fiber's own errors (unknown route, bad body).
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperror.StatusOf(err)
}

func WriteError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(StatusOf(err)).JSON(ErrorBody(err))
}
