package repository

import (
	"context"

	"github.com/restaurant-roulette/internal/domain"
)

// StatsRepository интерфейс для работы со статистикой поисков
type StatsRepository interface {
	// RecordSearch учитывает событие поиска в агрегатах
	RecordSearch(ctx context.Context, event *domain.SearchEvent) error

	// GetSearchStats возвращает агрегированную статистику
	GetSearchStats(ctx context.Context) (*domain.SearchStats, error)
}
