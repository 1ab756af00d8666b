package dto

import "github.com/restaurant-roulette/internal/domain"

// SourceGooglePlaces - источник данных в meta ответа
const SourceGooglePlaces = "google-places"

// RestaurantsResponse - ответ поиска ресторанов
type RestaurantsResponse struct {
	Restaurants []domain.RestaurantCard `json:"restaurants"`
	Meta        RestaurantsMeta         `json:"meta"`
}

// RestaurantsMeta - метаданные ответа; Total всегда равен len(Restaurants)
type RestaurantsMeta struct {
	Total     int    `json:"total"`
	Source    string `json:"source"`
	FetchedAt string `json:"fetchedAt"`
}

// GeocodeResponse - координаты найденного адреса
type GeocodeResponse struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
}

// AutocompleteResponse - подсказки адреса
type AutocompleteResponse struct {
	Predictions []domain.Prediction `json:"predictions"`
}

// HealthResponse - состояние сервиса и зависимостей
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}
