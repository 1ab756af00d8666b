package repository

import (
	"context"

	"github.com/restaurant-roulette/internal/domain"
)

// PlacesRepository - поиск ресторанов во внешнем API
type PlacesRepository interface {
	// FetchNearby возвращает нормализованные, уникальные и отсортированные карточки
	FetchNearby(ctx context.Context, req domain.RestaurantsRequest, apiKey string) ([]domain.RestaurantCard, error)
}

// GeocodeRepository - геокодирование адреса во внешнем API
type GeocodeRepository interface {
	Geocode(ctx context.Context, address, apiKey string) (*domain.GeocodeResult, error)
}

// AutocompleteRepository - подсказки адресов
type AutocompleteRepository interface {
	Autocomplete(ctx context.Context, input, apiKey string) ([]domain.Prediction, error)
}
