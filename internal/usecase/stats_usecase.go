package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/pkg/errors"
)

// StatsUseCase обрабатывает бизнес-логику для статистики поисков
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	logger    *zap.Logger
}

// NewStatsUseCase создает новый экземпляр StatsUseCase; statsRepo nil, если Redis выключен
func NewStatsUseCase(statsRepo repository.StatsRepository, logger *zap.Logger) *StatsUseCase {
	return &StatsUseCase{
		statsRepo: statsRepo,
		logger:    logger,
	}
}

// GetStatistics возвращает агрегированную статистику
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.SearchStats, error) {
	if uc.statsRepo == nil {
		return nil, errors.ErrStatisticsUnavailable
	}

	stats, err := uc.statsRepo.GetSearchStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get search stats: %w", err)
	}

	return stats, nil
}

// RecordSearch учитывает событие поиска
func (uc *StatsUseCase) RecordSearch(ctx context.Context, event *domain.SearchEvent) error {
	if uc.statsRepo == nil {
		return errors.ErrStatisticsUnavailable
	}

	if err := uc.statsRepo.RecordSearch(ctx, event); err != nil {
		return fmt.Errorf("record search: %w", err)
	}

	uc.logger.Debug("Search recorded",
		zap.String("event_id", event.ID.String()),
		zap.Int("results", event.ResultCount))
	return nil
}
