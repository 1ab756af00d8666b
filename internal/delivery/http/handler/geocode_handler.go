package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/utils"
	"github.com/restaurant-roulette/internal/usecase"
	"github.com/restaurant-roulette/internal/usecase/dto"
)

// GeocodeHandler - обработчик геокодирования адресов
type GeocodeHandler struct {
	geocodeUC *usecase.GeocodeUseCase
	logger    *zap.Logger
}

func NewGeocodeHandler(geocodeUC *usecase.GeocodeUseCase, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		geocodeUC: geocodeUC,
		logger:    logger,
	}
}

// Geocode godoc
// @Summary Геокодирование адреса
// @Description Возвращает координаты и отформатированный адрес для произвольной строки адреса
// @Tags Geocode
// @Accept json
// @Produce json
// @Param request body dto.GeocodeRequest true "Адрес"
// @Success 200 {object} dto.GeocodeResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/geocode [post]
func (h *GeocodeHandler) Geocode(c *fiber.Ctx) error {
	if !h.geocodeUC.Configured() {
		return utils.SendError(c, errors.ErrServerMisconfiguration)
	}

	var req dto.GeocodeRequest
	if err := decodeBody(c, &req, errors.ErrAddressRequired); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.geocodeUC.Geocode(c.UserContext(), req)
	if err != nil {
		h.logger.Debug("Geocode failed", zap.String("address", req.Address), zap.Error(err))
		return utils.SendError(c, err, errors.ErrAddressRequired)
	}

	return c.JSON(result)
}

func (h *GeocodeHandler) MethodNotAllowed(c *fiber.Ctx) error {
	return methodNotAllowed(c)
}
