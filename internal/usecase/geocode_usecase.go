package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/validator"
	"github.com/restaurant-roulette/internal/usecase/dto"
)

// GeocodeUseCase переводит адрес в координаты
type GeocodeUseCase struct {
	geocodeRepo repository.GeocodeRepository
	cacheRepo   repository.GeocodeCacheRepository
	apiKey      string
	logger      *zap.Logger
}

// NewGeocodeUseCase создает новый экземпляр GeocodeUseCase; cacheRepo может быть nil
func NewGeocodeUseCase(
	geocodeRepo repository.GeocodeRepository,
	cacheRepo repository.GeocodeCacheRepository,
	apiKey string,
	logger *zap.Logger,
) *GeocodeUseCase {
	return &GeocodeUseCase{
		geocodeRepo: geocodeRepo,
		cacheRepo:   cacheRepo,
		apiKey:      apiKey,
		logger:      logger,
	}
}

// Configured сообщает, задан ли ключ Geocoding API
func (uc *GeocodeUseCase) Configured() bool {
	return uc.apiKey != ""
}

// Geocode возвращает координаты адреса, сначала проверяя постоянный кеш
func (uc *GeocodeUseCase) Geocode(ctx context.Context, req dto.GeocodeRequest) (*dto.GeocodeResponse, error) {
	if !uc.Configured() {
		return nil, errors.ErrServerMisconfiguration
	}

	req.Address = strings.TrimSpace(req.Address)
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.Get(ctx, req.Address)
		if err != nil {
			uc.logger.Warn("Failed to read geocode cache", zap.Error(err))
		} else if cached != nil {
			uc.logger.Debug("Geocode served from cache", zap.String("address", req.Address))
			return &dto.GeocodeResponse{
				Latitude:         cached.Latitude,
				Longitude:        cached.Longitude,
				FormattedAddress: cached.FormattedAddress,
			}, nil
		}
	}

	result, err := uc.geocodeRepo.Geocode(ctx, req.Address, uc.apiKey)
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.Save(ctx, req.Address, result); err != nil {
			uc.logger.Warn("Failed to save geocode cache", zap.Error(err))
		}
	}

	return &dto.GeocodeResponse{
		Latitude:         result.Latitude,
		Longitude:        result.Longitude,
		FormattedAddress: result.FormattedAddress,
	}, nil
}
