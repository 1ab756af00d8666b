package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/validator"
	"github.com/restaurant-roulette/internal/usecase/dto"
)

// fetchedAtLayout - ISO 8601 с миллисекундами в UTC
const fetchedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// RestaurantUseCase обрабатывает поиск ресторанов
type RestaurantUseCase struct {
	placesRepo repository.PlacesRepository
	cacheRepo  repository.CacheRepository
	streamRepo repository.StreamRepository
	apiKey     string
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewRestaurantUseCase создает новый экземпляр RestaurantUseCase.
// cacheRepo и streamRepo необязательны (nil, если Redis выключен).
func NewRestaurantUseCase(
	placesRepo repository.PlacesRepository,
	cacheRepo repository.CacheRepository,
	streamRepo repository.StreamRepository,
	apiKey string,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *RestaurantUseCase {
	return &RestaurantUseCase{
		placesRepo: placesRepo,
		cacheRepo:  cacheRepo,
		streamRepo: streamRepo,
		apiKey:     apiKey,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Configured сообщает, задан ли ключ Places API
func (uc *RestaurantUseCase) Configured() bool {
	return uc.apiKey != ""
}

// Search валидирует недоверенный payload и возвращает рестораны вокруг точки.
// Ошибки: ErrServerMisconfiguration, *errors.ValidationError, *errors.UpstreamError.
func (uc *RestaurantUseCase) Search(ctx context.Context, raw any) (*dto.RestaurantsResponse, error) {
	if !uc.Configured() {
		return nil, errors.ErrServerMisconfiguration
	}

	req, err := validator.ParseRestaurantsRequest(raw)
	if err != nil {
		return nil, err
	}

	cards, cacheHit := uc.fromCache(ctx, *req)
	if !cacheHit {
		cards, err = uc.placesRepo.FetchNearby(ctx, *req, uc.apiKey)
		if err != nil {
			uc.logger.Warn("Nearby search failed",
				zap.Float64("lat", req.Latitude),
				zap.Float64("lng", req.Longitude),
				zap.Error(err))
			return nil, err
		}
		uc.toCache(ctx, *req, cards)
	}

	if cards == nil {
		cards = []domain.RestaurantCard{}
	}

	now := uc.now()
	uc.publish(ctx, domain.NewSearchEvent(*req, len(cards), cacheHit, now))

	return &dto.RestaurantsResponse{
		Restaurants: cards,
		Meta: dto.RestaurantsMeta{
			Total:     len(cards),
			Source:    dto.SourceGooglePlaces,
			FetchedAt: now.UTC().Format(fetchedAtLayout),
		},
	}, nil
}

func (uc *RestaurantUseCase) fromCache(ctx context.Context, req domain.RestaurantsRequest) ([]domain.RestaurantCard, bool) {
	if uc.cacheRepo == nil {
		return nil, false
	}

	cards, err := uc.cacheRepo.GetRestaurants(ctx, req)
	if err != nil {
		uc.logger.Warn("Failed to read restaurants cache", zap.Error(err))
		return nil, false
	}
	if cards == nil {
		return nil, false
	}

	uc.logger.Debug("Restaurants served from cache", zap.Int("count", len(cards)))
	return cards, true
}

func (uc *RestaurantUseCase) toCache(ctx context.Context, req domain.RestaurantsRequest, cards []domain.RestaurantCard) {
	if uc.cacheRepo == nil || uc.cacheTTL <= 0 {
		return
	}
	if err := uc.cacheRepo.SetRestaurants(ctx, req, cards, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache restaurants", zap.Error(err))
	}
}

func (uc *RestaurantUseCase) publish(ctx context.Context, event domain.SearchEvent) {
	if uc.streamRepo == nil {
		return
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamRestaurantsSearched, event); err != nil {
		uc.logger.Warn("Failed to publish search event",
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
	}
}
