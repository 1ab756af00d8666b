package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/restaurant-roulette/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

// SendError отправляет ошибку в формате {"error": {...}}.
// validationFallback задаёт код/сообщение для ValidationError конкретного endpoint'а.
func SendError(c *fiber.Ctx, err error, validationFallback ...*errors.AppError) error {
	var fallback *errors.AppError
	if len(validationFallback) > 0 {
		fallback = validationFallback[0]
	}

	appErr := errors.ToAppError(err, fallback)
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Error: appErr,
	})
}
