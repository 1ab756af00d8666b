package google

import (
	"context"
	"net/url"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
)

// MaxPredictions - сколько подсказок отдаём клиенту
const MaxPredictions = 5

var _ repository.AutocompleteRepository = (*Client)(nil)

// Autocomplete возвращает до MaxPredictions подсказок адреса
func (c *Client) Autocomplete(ctx context.Context, input, apiKey string) ([]domain.Prediction, error) {
	params := url.Values{}
	params.Set("input", input)
	params.Set("key", apiKey)
	if c.components != "" {
		params.Set("components", c.components)
	}

	env, err := c.get(ctx, autocompleteEndpoint, params)
	if err != nil {
		return nil, err
	}

	if env.Status != statusOK && env.Status != statusZeroResults {
		return nil, statusError(autocompleteEndpoint, env)
	}

	predictions := make([]domain.Prediction, 0, MaxPredictions)
	for _, raw := range env.records("predictions") {
		if len(predictions) == MaxPredictions {
			break
		}
		r, ok := decodeRecord(raw)
		if !ok {
			continue
		}
		description := r.str("description")
		placeID := r.str("place_id")
		if description == "" || placeID == "" {
			continue
		}
		predictions = append(predictions, domain.Prediction{Description: description, PlaceID: placeID})
	}

	return predictions, nil
}
