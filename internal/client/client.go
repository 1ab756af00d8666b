package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/usecase/dto"
)

const (
	restaurantsPath  = "/api/v1/restaurants"
	geocodePath      = "/api/v1/geocode"
	autocompletePath = "/api/v1/autocomplete"

	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 4 << 20
)

// APIError - ошибочный ответ сервера; Message пригодно для показа пользователю
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	return e.Message
}

type errorEnvelope struct {
	Error *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

// Client - HTTP клиент API ресторанов
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// Option настраивает Client
type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New создает клиент для сервера по адресу baseURL (например http://localhost:8080)
func New(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restaurants ищет рестораны вокруг точки
func (c *Client) Restaurants(ctx context.Context, req domain.RestaurantsRequest) (*dto.RestaurantsResponse, error) {
	if req.Cuisines == nil {
		req.Cuisines = []domain.CuisineID{}
	}

	var resp dto.RestaurantsResponse
	if err := c.post(ctx, restaurantsPath, req, &resp); err != nil {
		return nil, err
	}
	if resp.Restaurants == nil {
		resp.Restaurants = []domain.RestaurantCard{}
	}
	return &resp, nil
}

// Geocode переводит адрес в координаты
func (c *Client) Geocode(ctx context.Context, address string) (*dto.GeocodeResponse, error) {
	var resp dto.GeocodeResponse
	if err := c.post(ctx, geocodePath, dto.GeocodeRequest{Address: address}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Autocomplete возвращает подсказки адреса
func (c *Client) Autocomplete(ctx context.Context, input string) (*dto.AutocompleteResponse, error) {
	var resp dto.AutocompleteResponse
	if err := c.post(ctx, autocompletePath, dto.AutocompleteRequest{Input: input}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := c.baseURL + path
	c.logger.Debug("Calling restaurants API", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp.StatusCode, raw)
		c.logger.Debug("API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("code", apiErr.Code))
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseError достаёт error.message из тела; без него - "Request failed (N)."
func parseError(status int, raw []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("Request failed (%d).", status),
	}

	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == nil {
		return apiErr
	}

	apiErr.Code = env.Error.Code
	apiErr.Details = env.Error.Details
	if env.Error.Message != "" {
		apiErr.Message = env.Error.Message
	}
	return apiErr
}
