package google

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/pkg/errors"
)

var _ repository.GeocodeRepository = (*Client)(nil)

// Geocode переводит адрес в координаты первого результата Google Geocoding
func (c *Client) Geocode(ctx context.Context, address, apiKey string) (*domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", apiKey)

	env, err := c.get(ctx, geocodeEndpoint, params)
	if err != nil {
		return nil, err
	}

	results := env.records("results")
	if env.Status != statusOK || len(results) == 0 {
		c.logger.Info("Address not found",
			zap.String("status", env.Status),
			zap.String("error_message", env.ErrorMessage))
		return nil, errors.ErrAddressNotFound
	}

	first, ok := decodeRecord(results[0])
	if !ok {
		return nil, geocodeEndpoint.fail("Invalid coordinates in response")
	}

	lat, lng, ok := first.location()
	if !ok {
		return nil, geocodeEndpoint.fail("Invalid coordinates in response")
	}

	formatted := first.str("formatted_address")
	if formatted == "" {
		formatted = address
	}

	return &domain.GeocodeResult{
		Latitude:         lat,
		Longitude:        lng,
		FormattedAddress: formatted,
	}, nil
}
