package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/validator"
	"github.com/restaurant-roulette/internal/usecase/dto"
)

// AutocompleteUseCase отдаёт подсказки адресов
type AutocompleteUseCase struct {
	autocompleteRepo repository.AutocompleteRepository
	apiKey           string
	logger           *zap.Logger
}

func NewAutocompleteUseCase(autocompleteRepo repository.AutocompleteRepository, apiKey string, logger *zap.Logger) *AutocompleteUseCase {
	return &AutocompleteUseCase{
		autocompleteRepo: autocompleteRepo,
		apiKey:           apiKey,
		logger:           logger,
	}
}

// Suggest возвращает подсказки; пустой ввод даёт пустой список без обращения к API
func (uc *AutocompleteUseCase) Suggest(ctx context.Context, req dto.AutocompleteRequest) (*dto.AutocompleteResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	input := strings.TrimSpace(req.Input)
	if input == "" {
		return &dto.AutocompleteResponse{Predictions: []domain.Prediction{}}, nil
	}

	if uc.apiKey == "" {
		return nil, errors.ErrServerMisconfiguration
	}

	predictions, err := uc.autocompleteRepo.Autocomplete(ctx, input, uc.apiKey)
	if err != nil {
		uc.logger.Warn("Autocomplete failed", zap.Error(err))
		return nil, err
	}
	if predictions == nil {
		predictions = []domain.Prediction{}
	}

	return &dto.AutocompleteResponse{Predictions: predictions}, nil
}
