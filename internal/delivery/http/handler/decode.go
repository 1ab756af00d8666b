package handler

import (
	"encoding/json"
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/utils"
)

// decodeBody разбирает JSON тело запроса в dst.
// Синтаксическая ошибка даёт ErrInvalidJSON; несовпадение типов полей даёт fallback.
func decodeBody(c *fiber.Ctx, dst any, fallback *errors.AppError) error {
	err := json.Unmarshal(c.Body(), dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return fallback
	}
	return errors.ErrInvalidJSON
}

// methodNotAllowed - ответ 405 для endpoint'ов, принимающих только POST
func methodNotAllowed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAllow, fiber.MethodPost)
	return utils.SendError(c, errors.ErrMethodNotAllowed)
}
