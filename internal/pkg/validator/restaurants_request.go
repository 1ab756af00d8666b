package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/pkg/errors"
)

const (
	issuePayloadNotObject = "Request payload must be a JSON object."
	issueLatitude         = "`latitude` must be a finite number between -90 and 90."
	issueLongitude        = "`longitude` must be a finite number between -180 and 180."
	issueRadius           = "`radiusMeters` must be one of 1500, 3000, 4500, or 6000."
	issueOpenNow          = "`openNow` must be a boolean."
	issueSortBy           = "`sortBy` must be either \"distance\" or \"rating\"."
	issueCuisinesArray    = "`cuisines` must be an array."
)

var (
	radiusTag = "oneof=" + joinRadius(domain.RadiusOptions)
	sortTag   = "oneof=" + joinSort(domain.SortOptions)
)

// ParseRestaurantsRequest превращает декодированный JSON (map[string]any) в канонический запрос.
// Проверяются все поля; при любой проблеме возвращается *errors.ValidationError со списком всех проблем.
func ParseRestaurantsRequest(raw any) (*domain.RestaurantsRequest, error) {
	payload, ok := raw.(map[string]any)
	if !ok || payload == nil {
		return nil, errors.NewValidationError([]string{issuePayloadNotObject})
	}

	var issues []string

	lat, ok := finiteNumber(payload["latitude"])
	if !ok || Var(lat, "min=-90,max=90") != nil {
		issues = append(issues, issueLatitude)
	}

	lng, ok := finiteNumber(payload["longitude"])
	if !ok || Var(lng, "min=-180,max=180") != nil {
		issues = append(issues, issueLongitude)
	}

	var radius domain.RadiusMeters
	r, ok := finiteNumber(payload["radiusMeters"])
	if !ok || r != math.Trunc(r) || Var(int(r), radiusTag) != nil {
		issues = append(issues, issueRadius)
	} else {
		radius = domain.RadiusMeters(int(r))
	}

	openNow, ok := payload["openNow"].(bool)
	if !ok {
		issues = append(issues, issueOpenNow)
	}

	sortBy, ok := payload["sortBy"].(string)
	if !ok || Var(sortBy, sortTag) != nil {
		issues = append(issues, issueSortBy)
	}

	cuisines, cuisineIssues := parseCuisines(payload["cuisines"])
	issues = append(issues, cuisineIssues...)

	if len(issues) > 0 {
		return nil, errors.NewValidationError(issues)
	}

	return &domain.RestaurantsRequest{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radius,
		Cuisines:     cuisines,
		OpenNow:      openNow,
		SortBy:       domain.SortBy(sortBy),
	}, nil
}

// parseCuisines приводит к нижнему регистру, убирает повторы (первое вхождение) и сохраняет порядок
func parseCuisines(raw any) ([]domain.CuisineID, []string) {
	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case []string:
		entries = make([]any, len(v))
		for i, s := range v {
			entries[i] = s
		}
	default:
		return nil, []string{issueCuisinesArray}
	}

	var issues []string
	if len(entries) > domain.MaxCuisines {
		issues = append(issues, fmt.Sprintf("A maximum of %d cuisines can be selected.", domain.MaxCuisines))
	}

	cuisines := make([]domain.CuisineID, 0, len(entries))
	seen := make(map[domain.CuisineID]struct{}, len(entries))
	for i, entry := range entries {
		value, ok := entry.(string)
		if !ok {
			issues = append(issues, fmt.Sprintf("Cuisine at index %d must be a string.", i))
			continue
		}

		id := domain.CuisineID(strings.ToLower(value))
		if !domain.IsKnownCuisine(id) {
			issues = append(issues, fmt.Sprintf("Unsupported cuisine value: %s.", value))
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		cuisines = append(cuisines, id)
	}

	return cuisines, issues
}

func finiteNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func joinRadius(options []domain.RadiusMeters) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = fmt.Sprint(int(o))
	}
	return strings.Join(parts, " ")
}

func joinSort(options []domain.SortBy) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = string(o)
	}
	return strings.Join(parts, " ")
}
