package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/utils"
	"github.com/restaurant-roulette/internal/usecase"
)

const (
	restaurantsCacheControl = "private, max-age=20, stale-while-revalidate=40"
	restaurantsVary         = "x-forwarded-for"
)

// RestaurantHandler - обработчик поиска ресторанов
type RestaurantHandler struct {
	restaurantUC *usecase.RestaurantUseCase
	logger       *zap.Logger
}

// NewRestaurantHandler создает новый экземпляр RestaurantHandler
func NewRestaurantHandler(restaurantUC *usecase.RestaurantUseCase, logger *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantUC: restaurantUC,
		logger:       logger,
	}
}

// Search godoc
// @Summary Поиск ресторанов рядом с точкой
// @Description Ищет рестораны в радиусе с фильтрами по кухне и "открыто сейчас", сортирует по расстоянию или рейтингу
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param request body object true "latitude, longitude, radiusMeters, cuisines, openNow, sortBy"
// @Success 200 {object} dto.RestaurantsResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/restaurants [post]
func (h *RestaurantHandler) Search(c *fiber.Ctx) error {
	if !h.restaurantUC.Configured() {
		h.logger.Error("Places API key is not configured")
		return utils.SendError(c, errors.ErrServerMisconfiguration)
	}

	// тело разбирается в any: форму полей проверяет валидатор, собирая все проблемы сразу
	var payload any
	if err := decodeBody(c, &payload, errors.ErrInvalidRestaurantsRequest); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.restaurantUC.Search(c.UserContext(), payload)
	if err != nil {
		return utils.SendError(c, err, errors.ErrInvalidRestaurantsRequest)
	}

	c.Set(fiber.HeaderCacheControl, restaurantsCacheControl)
	c.Set(fiber.HeaderVary, restaurantsVary)
	return c.JSON(result)
}

// MethodNotAllowed отвечает 405 на любой метод, кроме POST
func (h *RestaurantHandler) MethodNotAllowed(c *fiber.Ctx) error {
	return methodNotAllowed(c)
}
