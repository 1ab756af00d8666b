package google

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/restaurant-roulette/internal/config"
	"github.com/restaurant-roulette/internal/pkg/errors"
)

const (
	nearbySearchPath = "/place/nearbysearch/json"
	geocodePath      = "/geocode/json"
	autocompletePath = "/place/autocomplete/json"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"

	defaultTimeout = 9 * time.Second

	// maxResponseBytes - тело длиннее обрезается и не разбирается как JSON
	maxResponseBytes = 4 << 20
)

// Client - клиент Google Maps Platform (Places Nearby Search, Geocoding, Place Autocomplete).
// Все запросы проходят через общий исходящий rate limiter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	components string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// ClientOption настраивает Client
type ClientOption func(*Client)

// WithHTTPClient подменяет HTTP клиент
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit задаёт лимит исходящих запросов в секунду
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// NewClient создает клиент Google Maps API
func NewClient(cfg *config.PlacesConfig, logger *zap.Logger, opts ...ClientOption) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{},
		baseURL:    cfg.BaseURL,
		timeout:    timeout,
		components: cfg.AutocompleteComponents,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		logger:     logger,
	}
	WithRateLimit(cfg.OutboundRPS)(c)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// endpoint описывает, как классифицировать сбои конкретного API
type endpoint struct {
	path    string
	service string
	options []errors.UpstreamOption
}

var (
	placesEndpoint = endpoint{
		path:    nearbySearchPath,
		service: "Google Places",
	}
	geocodeEndpoint = endpoint{
		path:    geocodePath,
		service: "Google Geocoding",
		options: []errors.UpstreamOption{
			errors.WithCode(errors.CodeGeocodeFailed),
			errors.WithStatusCode(http.StatusInternalServerError),
		},
	}
	autocompleteEndpoint = endpoint{
		path:    autocompletePath,
		service: "Google Place Autocomplete",
		options: []errors.UpstreamOption{
			errors.WithCode(errors.CodeAutocompleteFailed),
			errors.WithStatusCode(http.StatusInternalServerError),
		},
	}
)

func (e endpoint) fail(message string, opts ...errors.UpstreamOption) *errors.UpstreamError {
	return errors.NewUpstreamError(message, append(append([]errors.UpstreamOption{}, e.options...), opts...)...)
}

// envelope - общая часть ответов Google: статус, сообщение об ошибке и сырые записи
type envelope struct {
	Status       string
	ErrorMessage string
	Fields       map[string]json.RawMessage
}

// records возвращает элементы массива name; не-массив даёт пустой список
func (e *envelope) records(name string) []json.RawMessage {
	var items []json.RawMessage
	if raw, ok := e.Fields[name]; ok {
		_ = json.Unmarshal(raw, &items)
	}
	return items
}

// get выполняет GET с таймаутом и возвращает разобранный ответ.
// Все сбои транспорта и формата возвращаются как *errors.UpstreamError.
func (c *Client) get(ctx context.Context, ep endpoint, params url.Values) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Warn("Outbound rate limiter wait failed",
			zap.String("service", ep.service),
			zap.Error(err))
		return nil, ep.fail(ep.service+" request failed.", errors.WithCause(err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + ep.path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, ep.fail(ep.service+" request failed.", errors.WithCause(err))
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Calling Google API",
		zap.String("service", ep.service),
		zap.String("path", ep.path))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(reqCtx, ep, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportError(reqCtx, ep, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Google API returned error",
			zap.String("service", ep.service),
			zap.Int("status_code", resp.StatusCode))
		return nil, ep.fail(fmt.Sprintf("%s returned HTTP %d.", ep.service, resp.StatusCode))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		c.logger.Error("Google API returned invalid payload",
			zap.String("service", ep.service),
			zap.Error(err))
		return nil, ep.fail(ep.service + " returned an invalid response payload.")
	}

	env := &envelope{Fields: fields}
	_ = json.Unmarshal(fields["status"], &env.Status)
	_ = json.Unmarshal(fields["error_message"], &env.ErrorMessage)

	c.logger.Debug("Google API responded",
		zap.String("service", ep.service),
		zap.String("status", env.Status),
		zap.Duration("latency", time.Since(start)))

	return env, nil
}

func (c *Client) transportError(reqCtx context.Context, ep endpoint, err error) error {
	if stderrors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		c.logger.Warn("Google API request timed out",
			zap.String("service", ep.service),
			zap.Duration("timeout", c.timeout))
		return ep.fail(ep.service+" request timed out.", errors.WithCause(err))
	}

	c.logger.Error("Google API request failed",
		zap.String("service", ep.service),
		zap.Error(err))
	return ep.fail(ep.service+" request failed.", errors.WithCause(err))
}

// statusError - ошибка для статуса Google, отличного от OK/ZERO_RESULTS
func statusError(ep endpoint, env *envelope) error {
	message := env.ErrorMessage
	if message == "" {
		message = ep.service + " returned a non-success status."
	}
	return ep.fail(message, errors.WithUpstreamStatus(env.Status))
}
