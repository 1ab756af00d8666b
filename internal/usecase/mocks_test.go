package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/restaurant-roulette/internal/domain"
)

// MockPlacesRepository is a mock of PlacesRepository
type MockPlacesRepository struct {
	mock.Mock
}

func (m *MockPlacesRepository) FetchNearby(ctx context.Context, req domain.RestaurantsRequest, apiKey string) ([]domain.RestaurantCard, error) {
	args := m.Called(ctx, req, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RestaurantCard), args.Error(1)
}

// MockGeocodeRepository is a mock of GeocodeRepository
type MockGeocodeRepository struct {
	mock.Mock
}

func (m *MockGeocodeRepository) Geocode(ctx context.Context, address, apiKey string) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, address, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

// MockAutocompleteRepository is a mock of AutocompleteRepository
type MockAutocompleteRepository struct {
	mock.Mock
}

func (m *MockAutocompleteRepository) Autocomplete(ctx context.Context, input, apiKey string) ([]domain.Prediction, error) {
	args := m.Called(ctx, input, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prediction), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetRestaurants(ctx context.Context, req domain.RestaurantsRequest) ([]domain.RestaurantCard, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RestaurantCard), args.Error(1)
}

func (m *MockCacheRepository) SetRestaurants(ctx context.Context, req domain.RestaurantsRequest, cards []domain.RestaurantCard, ttl time.Duration) error {
	args := m.Called(ctx, req, cards, ttl)
	return args.Error(0)
}

// MockGeocodeCacheRepository is a mock of GeocodeCacheRepository
type MockGeocodeCacheRepository struct {
	mock.Mock
}

func (m *MockGeocodeCacheRepository) Get(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

func (m *MockGeocodeCacheRepository) Save(ctx context.Context, address string, result *domain.GeocodeResult) error {
	args := m.Called(ctx, address, result)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) RecordSearch(ctx context.Context, event *domain.SearchEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStatsRepository) GetSearchStats(ctx context.Context) (*domain.SearchStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchStats), args.Error(1)
}
