package google

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/config"
	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.PlacesConfig{
		BaseURL:                server.URL,
		RequestTimeout:         2 * time.Second,
		AutocompleteComponents: "country:us",
	}
	return NewClient(cfg, zap.NewNop()), server
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func baseRequest() domain.RestaurantsRequest {
	return domain.RestaurantsRequest{
		Latitude:     40.7128,
		Longitude:    -74.006,
		RadiusMeters: domain.Radius3000,
		Cuisines:     []domain.CuisineID{},
		OpenNow:      false,
		SortBy:       domain.SortByDistance,
	}
}

func upstreamErr(t *testing.T, err error) *errors.UpstreamError {
	t.Helper()
	var upstream *errors.UpstreamError
	require.True(t, stderrors.As(err, &upstream), "expected UpstreamError, got %v", err)
	return upstream
}

func TestClient_FetchNearby_QueryParams(t *testing.T) {
	t.Run("all filters", func(t *testing.T) {
		var query map[string][]string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, nearbySearchPath, r.URL.Path)
			query = r.URL.Query()
			fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
		})

		req := baseRequest()
		req.OpenNow = true
		req.Cuisines = []domain.CuisineID{"thai", "korean"}

		_, err := client.FetchNearby(context.Background(), req, "secret")
		require.NoError(t, err)

		assert.Equal(t, []string{"40.7128,-74.006"}, query["location"])
		assert.Equal(t, []string{"3000"}, query["radius"])
		assert.Equal(t, []string{"restaurant"}, query["type"])
		assert.Equal(t, []string{"secret"}, query["key"])
		assert.Equal(t, []string{"true"}, query["opennow"])
		assert.Equal(t, []string{"thai korean"}, query["keyword"])
	})

	t.Run("optional params omitted", func(t *testing.T) {
		var query map[string][]string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			fmt.Fprint(w, `{"status":"ZERO_RESULTS"}`)
		})

		cards, err := client.FetchNearby(context.Background(), baseRequest(), "secret")
		require.NoError(t, err)
		assert.Empty(t, cards)

		assert.NotContains(t, query, "opennow")
		assert.NotContains(t, query, "keyword")
	})
}

func TestClient_FetchNearby_Normalization(t *testing.T) {
	body := `{
		"status": "OK",
		"results": [
			{"place_id": "far", "name": "Far Away", "vicinity": "2 Road",
			 "geometry": {"location": {"lat": 40.73, "lng": -74.006}},
			 "rating": 4.5, "user_ratings_total": 120, "price_level": 2,
			 "opening_hours": {"open_now": true}},
			{"place_id": "near", "name": "Near By",
			 "geometry": {"location": {"lat": 40.7130, "lng": -74.006}},
			 "rating": null, "user_ratings_total": "many", "opening_hours": {}},
			{"place_id": "far", "name": "Duplicate", "geometry": {"location": {"lat": 0, "lng": 0}}},
			{"place_id": "", "name": "No ID", "geometry": {"location": {"lat": 40.7, "lng": -74}}},
			{"place_id": "no-name", "geometry": {"location": {"lat": 40.7, "lng": -74}}},
			{"place_id": "no-coords", "name": "Lost", "geometry": {"location": {"lat": "40.7", "lng": -74}}},
			"not an object"
		]
	}`
	client, _ := newTestClient(t, jsonHandler(body))

	cards, err := client.FetchNearby(context.Background(), baseRequest(), "secret")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	near, far := cards[0], cards[1]

	assert.Equal(t, "near", near.ID)
	assert.Equal(t, "Address unavailable", near.Address)
	assert.Nil(t, near.Rating)
	assert.Nil(t, near.UserRatingsTotal)
	assert.Nil(t, near.PriceLevel)
	assert.Nil(t, near.OpenNow, "missing open_now is unknown, not closed")
	require.NotNil(t, near.DistanceMeters)
	assert.Equal(t, 22, *near.DistanceMeters)

	assert.Equal(t, "far", far.ID)
	assert.Equal(t, "Far Away", far.Name, "first occurrence wins")
	assert.Equal(t, "2 Road", far.Address)
	assert.Equal(t, 4.5, *far.Rating)
	assert.Equal(t, 120, *far.UserRatingsTotal)
	assert.Equal(t, 2, *far.PriceLevel)
	assert.True(t, *far.OpenNow)
	assert.Equal(t, domain.Coordinates{Latitude: 40.73, Longitude: -74.006}, far.Location)
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=40.73,-74.006", far.MapsURL)
}

func TestClient_FetchNearby_KeepsUntrimmedFields(t *testing.T) {
	body := `{"status":"OK","results":[
		{"place_id":" ","name":"  ","vicinity":"","geometry":{"location":{"lat":40.72,"lng":-74.0}}},
		{"place_id":"null-vicinity","name":"Null","vicinity":null,"geometry":{"location":{"lat":40.72,"lng":-74.0}}}
	]}`
	client, _ := newTestClient(t, jsonHandler(body))

	cards, err := client.FetchNearby(context.Background(), baseRequest(), "secret")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	byID := map[string]domain.RestaurantCard{cards[0].ID: cards[0], cards[1].ID: cards[1]}

	blank, ok := byID[" "]
	require.True(t, ok, "whitespace id is still an id")
	assert.Equal(t, "  ", blank.Name)
	assert.Equal(t, "", blank.Address, "empty vicinity is kept as is")

	assert.Equal(t, "Address unavailable", byID["null-vicinity"].Address)
}

func TestClient_FetchNearby_SortByRating(t *testing.T) {
	body := `{"status":"OK","results":[
		{"place_id":"a","name":"A","geometry":{"location":{"lat":40.72,"lng":-74.0}},"rating":4.0,"user_ratings_total":10},
		{"place_id":"b","name":"B","geometry":{"location":{"lat":40.72,"lng":-74.0}},"rating":4.0,"user_ratings_total":50},
		{"place_id":"c","name":"C","geometry":{"location":{"lat":40.72,"lng":-74.0}}}
	]}`
	client, _ := newTestClient(t, jsonHandler(body))

	req := baseRequest()
	req.SortBy = domain.SortByRating

	cards, err := client.FetchNearby(context.Background(), req, "secret")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{cards[0].ID, cards[1].ID, cards[2].ID})
}

func TestClient_FetchNearby_Failures(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		message        string
		upstreamStatus string
	}{
		{
			name:           "over query limit with upstream message",
			handler:        jsonHandler(`{"status":"OVER_QUERY_LIMIT","error_message":"You have exceeded your daily request quota."}`),
			message:        "You have exceeded your daily request quota.",
			upstreamStatus: "OVER_QUERY_LIMIT",
		},
		{
			name:           "request denied without message",
			handler:        jsonHandler(`{"status":"REQUEST_DENIED"}`),
			message:        "Google Places returned a non-success status.",
			upstreamStatus: "REQUEST_DENIED",
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			message: "Google Places returned HTTP 503.",
		},
		{
			name:    "array payload",
			handler: jsonHandler(`[1,2,3]`),
			message: "Google Places returned an invalid response payload.",
		},
		{
			name:    "malformed json",
			handler: jsonHandler(`{"status":`),
			message: "Google Places returned an invalid response payload.",
		},
		{
			name: "oversized payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"status":"OK","results":[`)
				fmt.Fprint(w, strings.Repeat(" ", maxResponseBytes))
				fmt.Fprint(w, `]}`)
			},
			message: "Google Places returned an invalid response payload.",
		},
		{
			name:    "null payload",
			handler: jsonHandler(`null`),
			message: "Google Places returned an invalid response payload.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)

			cards, err := client.FetchNearby(context.Background(), baseRequest(), "secret")

			assert.Nil(t, cards)
			upstream := upstreamErr(t, err)
			assert.Equal(t, tt.message, upstream.Message)
			assert.Equal(t, tt.upstreamStatus, upstream.UpstreamStatus)
			assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
			assert.Equal(t, errors.CodeUpstreamError, upstream.Code)
		})
	}
}

func TestClient_FetchNearby_Timeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client.timeout = 50 * time.Millisecond

	_, err := client.FetchNearby(context.Background(), baseRequest(), "secret")

	upstream := upstreamErr(t, err)
	assert.Equal(t, "Google Places request timed out.", upstream.Message)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_FetchNearby_ConnectionFailure(t *testing.T) {
	client, server := newTestClient(t, jsonHandler(`{}`))
	server.Close()

	_, err := client.FetchNearby(context.Background(), baseRequest(), "secret")

	assert.Equal(t, "Google Places request failed.", upstreamErr(t, err).Message)
}

func TestClient_Geocode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, geocodePath, r.URL.Path)
			assert.Equal(t, "350 5th Ave", r.URL.Query().Get("address"))
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			fmt.Fprint(w, `{"status":"OK","results":[{"formatted_address":"350 5th Ave, New York, NY","geometry":{"location":{"lat":40.7484,"lng":-73.9857}}}]}`)
		})

		result, err := client.Geocode(context.Background(), "350 5th Ave", "secret")
		require.NoError(t, err)
		assert.Equal(t, 40.7484, result.Latitude)
		assert.Equal(t, -73.9857, result.Longitude)
		assert.Equal(t, "350 5th Ave, New York, NY", result.FormattedAddress)
	})

	t.Run("formatted address falls back to input", func(t *testing.T) {
		client, _ := newTestClient(t, jsonHandler(`{"status":"OK","results":[{"geometry":{"location":{"lat":1,"lng":2}}}]}`))

		result, err := client.Geocode(context.Background(), "somewhere", "secret")
		require.NoError(t, err)
		assert.Equal(t, "somewhere", result.FormattedAddress)
	})

	t.Run("zero results is not found", func(t *testing.T) {
		client, _ := newTestClient(t, jsonHandler(`{"status":"ZERO_RESULTS","results":[]}`))

		_, err := client.Geocode(context.Background(), "nowhere", "secret")
		assert.ErrorIs(t, err, errors.ErrAddressNotFound)
	})

	t.Run("ok without results is not found", func(t *testing.T) {
		client, _ := newTestClient(t, jsonHandler(`{"status":"OK","results":[]}`))

		_, err := client.Geocode(context.Background(), "nowhere", "secret")
		assert.ErrorIs(t, err, errors.ErrAddressNotFound)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		client, _ := newTestClient(t, jsonHandler(`{"status":"OK","results":[{"geometry":{"location":{"lat":"x","lng":2}}}]}`))

		_, err := client.Geocode(context.Background(), "broken", "secret")
		upstream := upstreamErr(t, err)
		assert.Equal(t, "Invalid coordinates in response", upstream.Message)
		assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
		assert.Equal(t, errors.CodeGeocodeFailed, upstream.Code)
	})

	t.Run("http failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.Geocode(context.Background(), "x", "secret")
		upstream := upstreamErr(t, err)
		assert.Equal(t, "Google Geocoding returned HTTP 500.", upstream.Message)
		assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	})
}

func TestClient_Autocomplete(t *testing.T) {
	t.Run("limits predictions and sends components", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, autocompletePath, r.URL.Path)
			assert.Equal(t, "country:us", r.URL.Query().Get("components"))
			assert.Equal(t, "main", r.URL.Query().Get("input"))
			fmt.Fprint(w, `{"status":"OK","predictions":[
				{"description":"1 Main St","place_id":"p1"},
				{"description":"2 Main St","place_id":"p2"},
				{"description":"missing id"},
				{"description":"3 Main St","place_id":"p3"},
				{"description":"4 Main St","place_id":"p4"},
				{"description":"5 Main St","place_id":"p5"},
				{"description":"6 Main St","place_id":"p6"}
			]}`)
		})

		predictions, err := client.Autocomplete(context.Background(), "main", "secret")
		require.NoError(t, err)
		require.Len(t, predictions, MaxPredictions)
		assert.Equal(t, domain.Prediction{Description: "1 Main St", PlaceID: "p1"}, predictions[0])
		assert.Equal(t, "p5", predictions[4].PlaceID)
	})

	t.Run("zero results", func(t *testing.T) {
		client, _ := newTestClient(t, jsonHandler(`{"status":"ZERO_RESULTS","predictions":[]}`))

		predictions, err := client.Autocomplete(context.Background(), "zzzz", "secret")
		require.NoError(t, err)
		assert.Empty(t, predictions)
	})

	t.Run("denied", func(t *testing.T) {
		client, _ := newTestClient(t, jsonHandler(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))

		_, err := client.Autocomplete(context.Background(), "main", "bad")
		upstream := upstreamErr(t, err)
		assert.Equal(t, errors.CodeAutocompleteFailed, upstream.Code)
		assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
		assert.Equal(t, "The provided API key is invalid.", upstream.Message)
	})
}

func TestClient_OutboundRateLimitHonorsContext(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(`{"status":"ZERO_RESULTS"}`))
	WithRateLimit(1)(client)

	_, err := client.FetchNearby(context.Background(), baseRequest(), "secret")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = client.FetchNearby(ctx, baseRequest(), "secret")
	assert.Equal(t, "Google Places request failed.", upstreamErr(t, err).Message)
}
