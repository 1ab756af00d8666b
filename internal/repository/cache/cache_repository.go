package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
)

const restaurantsKeyPrefix = "restaurants:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return newCacheRepository(redis.Client(), redis.logger)
}

func newCacheRepository(client *redis.Client, logger *zap.Logger) *cacheRepository {
	return &cacheRepository{
		client: client,
		logger: logger,
	}
}

func (r *cacheRepository) get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetRestaurants получает результаты поиска из кеша
func (r *cacheRepository) GetRestaurants(ctx context.Context, req domain.RestaurantsRequest) ([]domain.RestaurantCard, error) {
	data, err := r.get(ctx, restaurantsKeyPrefix+req.Key())
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var cards []domain.RestaurantCard
	if err := json.Unmarshal(data, &cards); err != nil {
		r.logger.Error("Failed to unmarshal restaurants from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal restaurants: %w", err)
	}

	return cards, nil
}

// SetRestaurants сохраняет результаты поиска в кеше
func (r *cacheRepository) SetRestaurants(ctx context.Context, req domain.RestaurantsRequest, cards []domain.RestaurantCard, ttl time.Duration) error {
	if cards == nil {
		cards = []domain.RestaurantCard{}
	}
	data, err := json.Marshal(cards)
	if err != nil {
		r.logger.Error("Failed to marshal restaurants", zap.Error(err))
		return fmt.Errorf("marshal restaurants: %w", err)
	}

	return r.set(ctx, restaurantsKeyPrefix+req.Key(), data, ttl)
}
