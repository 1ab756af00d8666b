package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/config"
	"github.com/restaurant-roulette/internal/delivery/http/handler"
	"github.com/restaurant-roulette/internal/delivery/http/middleware"
	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/ratelimit"
	"github.com/restaurant-roulette/internal/pkg/utils"
)

// Области лимитов: у каждого endpoint'а свой счётчик на клиента
const (
	scopeRestaurants  = "restaurants"
	scopeGeocode      = "geocode"
	scopeAutocomplete = "autocomplete"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app     *fiber.App
	config  *config.Config
	logger  *zap.Logger
	limiter *ratelimit.Limiter

	// Handlers
	restaurantHandler   *handler.RestaurantHandler
	geocodeHandler      *handler.GeocodeHandler
	autocompleteHandler *handler.AutocompleteHandler
	statsHandler        *handler.StatsHandler
	healthHandler       *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	limiter *ratelimit.Limiter,
	restaurantHandler *handler.RestaurantHandler,
	geocodeHandler *handler.GeocodeHandler,
	autocompleteHandler *handler.AutocompleteHandler,
	statsHandler *handler.StatsHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Restaurant Roulette",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                 app,
		config:              cfg,
		logger:              logger,
		limiter:             limiter,
		restaurantHandler:   restaurantHandler,
		geocodeHandler:      geocodeHandler,
		autocompleteHandler: autocompleteHandler,
		statsHandler:        statsHandler,
		healthHandler:       healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSAllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Check)

	rl := s.config.RateLimit

	// Restaurants: лимит -> проверка ключа -> JSON -> валидация -> кеш -> upstream
	api.Post("/restaurants",
		middleware.RateLimit(s.limiter, scopeRestaurants, rl.MaxRequests, rl.Window, s.logger),
		s.restaurantHandler.Search)
	api.All("/restaurants", s.restaurantHandler.MethodNotAllowed)

	api.Post("/geocode",
		middleware.RateLimit(s.limiter, scopeGeocode, rl.MaxRequests, rl.Window, s.logger),
		s.geocodeHandler.Geocode)
	api.All("/geocode", s.geocodeHandler.MethodNotAllowed)

	api.Post("/autocomplete",
		middleware.RateLimit(s.limiter, scopeAutocomplete, rl.AutocompleteMaxRequest, rl.AutocompleteWindow, s.logger),
		s.autocompleteHandler.Autocomplete)
	api.All("/autocomplete", s.autocompleteHandler.MethodNotAllowed)

	// Stats
	api.Get("/stats", s.statsHandler.GetStatistics)
}

// App возвращает fiber приложение (используется в тестах через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			// 404 на неизвестный маршрут и прочие ошибки самого fiber
			return c.Status(e.Code).JSON(utils.ErrorResponse{
				Error: errors.New(errors.CodeInvalidRequest, e.Message, e.Code),
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return utils.SendError(c, err)
	}
}
