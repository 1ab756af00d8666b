package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
)

const (
	searchStatsKey = "stats:searches"

	fieldTotal        = "total"
	fieldCacheHits    = "cache_hits"
	fieldEmptyResults = "empty_results"
	fieldOpenNow      = "open_now"
	fieldUpdatedAt    = "updated_at"

	prefixCuisine = "cuisine:"
	prefixRadius  = "radius:"
	prefixSort    = "sort:"
)

type statsRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStatsRepository - счётчики поисков в Redis hash
func NewStatsRepository(redis *Redis) repository.StatsRepository {
	return newStatsRepository(redis.Client(), redis.logger)
}

func newStatsRepository(client *redis.Client, logger *zap.Logger) *statsRepository {
	return &statsRepository{
		client: client,
		logger: logger,
	}
}

// RecordSearch атомарно увеличивает все счётчики, затронутые событием
func (r *statsRepository) RecordSearch(ctx context.Context, event *domain.SearchEvent) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, searchStatsKey, fieldTotal, 1)
		if event.CacheHit {
			pipe.HIncrBy(ctx, searchStatsKey, fieldCacheHits, 1)
		}
		if event.ResultCount == 0 {
			pipe.HIncrBy(ctx, searchStatsKey, fieldEmptyResults, 1)
		}
		if event.Request.OpenNow {
			pipe.HIncrBy(ctx, searchStatsKey, fieldOpenNow, 1)
		}
		for _, cuisine := range event.Request.Cuisines {
			pipe.HIncrBy(ctx, searchStatsKey, prefixCuisine+string(cuisine), 1)
		}
		pipe.HIncrBy(ctx, searchStatsKey, prefixRadius+strconv.Itoa(int(event.Request.RadiusMeters)), 1)
		pipe.HIncrBy(ctx, searchStatsKey, prefixSort+string(event.Request.SortBy), 1)
		pipe.HSet(ctx, searchStatsKey, fieldUpdatedAt, event.OccurredAt.Unix())
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to record search stats",
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
		return fmt.Errorf("record search stats: %w", err)
	}

	return nil
}

// GetSearchStats читает агрегаты; пустой hash даёт нулевую статистику
func (r *statsRepository) GetSearchStats(ctx context.Context) (*domain.SearchStats, error) {
	values, err := r.client.HGetAll(ctx, searchStatsKey).Result()
	if err != nil {
		r.logger.Error("Failed to read search stats", zap.Error(err))
		return nil, fmt.Errorf("read search stats: %w", err)
	}

	return parseSearchStats(values), nil
}

func parseSearchStats(values map[string]string) *domain.SearchStats {
	stats := &domain.SearchStats{
		ByCuisine: make(map[string]int64),
		ByRadius:  make(map[string]int64),
		BySort:    make(map[string]int64),
	}

	for field, raw := range values {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}

		switch {
		case field == fieldTotal:
			stats.TotalSearches = n
		case field == fieldCacheHits:
			stats.CacheHits = n
		case field == fieldEmptyResults:
			stats.EmptyResults = n
		case field == fieldOpenNow:
			stats.OpenNowSearches = n
		case field == fieldUpdatedAt:
			stats.UpdatedAt = time.Unix(n, 0).UTC()
		case strings.HasPrefix(field, prefixCuisine):
			stats.ByCuisine[strings.TrimPrefix(field, prefixCuisine)] = n
		case strings.HasPrefix(field, prefixRadius):
			stats.ByRadius[strings.TrimPrefix(field, prefixRadius)] = n
		case strings.HasPrefix(field, prefixSort):
			stats.BySort[strings.TrimPrefix(field, prefixSort)] = n
		}
	}

	return stats
}
