package repository

import (
	"context"
	"time"

	"github.com/restaurant-roulette/internal/domain"
)

// CacheRepository - кеш результатов поиска ресторанов
type CacheRepository interface {
	// GetRestaurants получает результаты поиска из кеша, nil при промахе
	GetRestaurants(ctx context.Context, req domain.RestaurantsRequest) ([]domain.RestaurantCard, error)

	// SetRestaurants сохраняет результаты поиска
	SetRestaurants(ctx context.Context, req domain.RestaurantsRequest, cards []domain.RestaurantCard, ttl time.Duration) error
}
