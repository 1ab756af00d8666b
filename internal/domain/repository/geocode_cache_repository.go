package repository

import (
	"context"

	"github.com/restaurant-roulette/internal/domain"
)

// GeocodeCacheRepository - постоянный кеш результатов геокодирования
type GeocodeCacheRepository interface {
	// Get возвращает результат для нормализованного адреса, nil при промахе
	Get(ctx context.Context, address string) (*domain.GeocodeResult, error)

	// Save сохраняет или обновляет результат
	Save(ctx context.Context, address string, result *domain.GeocodeResult) error
}
