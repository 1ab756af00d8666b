package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// RestaurantsRequest - канонический запрос поиска, создаётся только валидатором
type RestaurantsRequest struct {
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	RadiusMeters RadiusMeters `json:"radiusMeters"`
	Cuisines     []CuisineID  `json:"cuisines"`
	OpenNow      bool         `json:"openNow"`
	SortBy       SortBy       `json:"sortBy"`
}

// NewRestaurantsRequest собирает запрос из координат и фильтров клиента
func NewRestaurantsRequest(coords Coordinates, filters SearchFilters) RestaurantsRequest {
	f := filters.Clone()
	return RestaurantsRequest{
		Latitude:     coords.Latitude,
		Longitude:    coords.Longitude,
		RadiusMeters: f.RadiusMeters,
		Cuisines:     f.Cuisines,
		OpenNow:      f.OpenNow,
		SortBy:       f.SortBy,
	}
}

// Key - стабильный ключ запроса (кеш на сервере, повторный выбор победителя на клиенте)
func (r RestaurantsRequest) Key() string {
	cuisines := make([]string, len(r.Cuisines))
	for i, c := range r.Cuisines {
		cuisines[i] = string(c)
	}
	return fmt.Sprintf("%s,%s,%d,%s,%t,%s",
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		r.RadiusMeters,
		strings.Join(cuisines, "|"),
		r.OpenNow,
		r.SortBy,
	)
}

// RestaurantCard - нормализованная карточка ресторана.
// nil в указателях означает "неизвестно" и сериализуется как null.
type RestaurantCard struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Location         Coordinates `json:"location"`
	Rating           *float64    `json:"rating"`
	UserRatingsTotal *int        `json:"userRatingsTotal"`
	PriceLevel       *int        `json:"priceLevel"`
	OpenNow          *bool       `json:"openNow"`
	DistanceMeters   *int        `json:"distanceMeters"`
	MapsURL          string      `json:"mapsUrl"`
}

// DedupeRestaurants убирает повторы по ID, оставляя первое вхождение
func DedupeRestaurants(cards []RestaurantCard) []RestaurantCard {
	seen := make(map[string]struct{}, len(cards))
	out := make([]RestaurantCard, 0, len(cards))
	for _, card := range cards {
		if _, ok := seen[card.ID]; ok {
			continue
		}
		seen[card.ID] = struct{}{}
		out = append(out, card)
	}
	return out
}

func distanceOrMax(card RestaurantCard) int {
	if card.DistanceMeters == nil {
		return math.MaxInt
	}
	return *card.DistanceMeters
}

func ratingOrLowest(card RestaurantCard) float64 {
	if card.Rating == nil {
		return -1
	}
	return *card.Rating
}

func votesOrLowest(card RestaurantCard) int {
	if card.UserRatingsTotal == nil {
		return -1
	}
	return *card.UserRatingsTotal
}

func compareByDistance(a, b RestaurantCard) int {
	return cmp.Compare(distanceOrMax(a), distanceOrMax(b))
}

func compareByRating(a, b RestaurantCard) int {
	if c := cmp.Compare(ratingOrLowest(b), ratingOrLowest(a)); c != 0 {
		return c
	}
	if c := cmp.Compare(votesOrLowest(b), votesOrLowest(a)); c != 0 {
		return c
	}
	return compareByDistance(a, b)
}

// SortRestaurants возвращает отсортированную копию.
// distance: по возрастанию расстояния, неизвестное расстояние в конце.
// rating: по убыванию рейтинга, затем числа оценок, затем по возрастанию расстояния.
func SortRestaurants(cards []RestaurantCard, sortBy SortBy) []RestaurantCard {
	out := slices.Clone(cards)
	if sortBy == SortByRating {
		slices.SortStableFunc(out, compareByRating)
		return out
	}
	slices.SortStableFunc(out, compareByDistance)
	return out
}
