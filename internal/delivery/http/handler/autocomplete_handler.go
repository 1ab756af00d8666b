package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/utils"
	"github.com/restaurant-roulette/internal/usecase"
	"github.com/restaurant-roulette/internal/usecase/dto"
)

// AutocompleteHandler - обработчик подсказок адреса
type AutocompleteHandler struct {
	autocompleteUC *usecase.AutocompleteUseCase
	logger         *zap.Logger
}

func NewAutocompleteHandler(autocompleteUC *usecase.AutocompleteUseCase, logger *zap.Logger) *AutocompleteHandler {
	return &AutocompleteHandler{
		autocompleteUC: autocompleteUC,
		logger:         logger,
	}
}

// Autocomplete godoc
// @Summary Подсказки адреса
// @Description До 5 подсказок для введённой строки; пустая строка даёт пустой список
// @Tags Geocode
// @Accept json
// @Produce json
// @Param request body dto.AutocompleteRequest true "Ввод пользователя (до 200 символов)"
// @Success 200 {object} dto.AutocompleteResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/autocomplete [post]
func (h *AutocompleteHandler) Autocomplete(c *fiber.Ctx) error {
	var req dto.AutocompleteRequest
	if err := decodeBody(c, &req, errors.ErrInvalidAutocompleteRequest); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.autocompleteUC.Suggest(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err, errors.ErrInvalidAutocompleteRequest)
	}

	return c.JSON(result)
}

func (h *AutocompleteHandler) MethodNotAllowed(c *fiber.Ctx) error {
	return methodNotAllowed(c)
}
