package google

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/pkg/utils"
)

const (
	placeTypeRestaurant = "restaurant"
	addressUnavailable  = "Address unavailable"
	mapsDirectionsURL   = "https://www.google.com/maps/dir/?api=1&destination="
)

var _ repository.PlacesRepository = (*Client)(nil)

// FetchNearby ищет рестораны вокруг точки запроса.
// Результат нормализован, без повторов по place_id и отсортирован по req.SortBy.
func (c *Client) FetchNearby(ctx context.Context, req domain.RestaurantsRequest, apiKey string) ([]domain.RestaurantCard, error) {
	env, err := c.get(ctx, placesEndpoint, nearbyParams(req, apiKey))
	if err != nil {
		return nil, err
	}

	if env.Status != statusOK && env.Status != statusZeroResults {
		c.logger.Error("Google Places returned non-success status",
			zap.String("status", env.Status),
			zap.String("error_message", env.ErrorMessage))
		return nil, statusError(placesEndpoint, env)
	}

	raw := env.records("results")
	cards := make([]domain.RestaurantCard, 0, len(raw))
	for _, item := range raw {
		card, ok := normalizePlace(item, req)
		if !ok {
			continue
		}
		cards = append(cards, card)
	}

	dropped := len(raw) - len(cards)
	cards = domain.SortRestaurants(domain.DedupeRestaurants(cards), req.SortBy)

	c.logger.Debug("Nearby search completed",
		zap.Int("upstream_results", len(raw)),
		zap.Int("dropped", dropped),
		zap.Int("restaurants", len(cards)))

	return cards, nil
}

func nearbyParams(req domain.RestaurantsRequest, apiKey string) url.Values {
	params := url.Values{}
	params.Set("location", formatCoord(req.Latitude)+","+formatCoord(req.Longitude))
	params.Set("radius", strconv.Itoa(int(req.RadiusMeters)))
	params.Set("type", placeTypeRestaurant)
	params.Set("key", apiKey)

	if req.OpenNow {
		params.Set("opennow", "true")
	}

	keywords := make([]string, 0, len(req.Cuisines))
	for _, cuisine := range req.Cuisines {
		if keyword, ok := domain.CuisineKeyword(cuisine); ok {
			keywords = append(keywords, keyword)
		}
	}
	if len(keywords) > 0 {
		params.Set("keyword", strings.Join(keywords, " "))
	}

	return params
}

// normalizePlace строит карточку из записи Google; записи без id, имени или координат отбрасываются
func normalizePlace(raw []byte, req domain.RestaurantsRequest) (domain.RestaurantCard, bool) {
	r, ok := decodeRecord(raw)
	if !ok {
		return domain.RestaurantCard{}, false
	}

	id := r.str("place_id")
	name := r.str("name")
	lat, lng, hasLocation := r.location()
	if id == "" || name == "" || !hasLocation {
		return domain.RestaurantCard{}, false
	}

	address, ok := r.strOK("vicinity")
	if !ok {
		address = addressUnavailable
	}

	distance := utils.DistanceMeters(req.Latitude, req.Longitude, lat, lng)

	return domain.RestaurantCard{
		ID:               id,
		Name:             name,
		Address:          address,
		Location:         domain.Coordinates{Latitude: lat, Longitude: lng},
		Rating:           r.floatPtr("rating"),
		UserRatingsTotal: r.intPtr("user_ratings_total"),
		PriceLevel:       r.intPtr("price_level"),
		OpenNow:          r.nested("opening_hours").boolPtr("open_now"),
		DistanceMeters:   &distance,
		MapsURL:          mapsURL(lat, lng),
	}, true
}

func mapsURL(lat, lng float64) string {
	return fmt.Sprintf("%s%s,%s", mapsDirectionsURL, formatCoord(lat), formatCoord(lng))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
