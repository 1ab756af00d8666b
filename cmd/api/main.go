package main

// @title Restaurant Roulette API
// @version 1.0.0
// @description Сервис поиска ресторанов рядом с выбранной точкой. Проксирует Google Places Nearby Search,
// @description нормализует и сортирует результаты, геокодирует адреса и выдаёт подсказки ввода.
// @description
// @description Основные возможности:
// @description - Поиск ресторанов в радиусе с фильтрами по кухне и "открыто сейчас"
// @description - Геокодирование адреса и подсказки адреса
// @description - Ограничение частоты запросов по клиенту
// @description - Статистика поисков (при включённом Redis)

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/restaurant-roulette/docs"
	"github.com/restaurant-roulette/internal/config"
	httpDelivery "github.com/restaurant-roulette/internal/delivery/http"
	"github.com/restaurant-roulette/internal/delivery/http/handler"
	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/infrastructure/google"
	"github.com/restaurant-roulette/internal/pkg/logger"
	"github.com/restaurant-roulette/internal/pkg/ratelimit"
	"github.com/restaurant-roulette/internal/repository/cache"
	"github.com/restaurant-roulette/internal/repository/memory"
	"github.com/restaurant-roulette/internal/repository/postgres"
	redisRepo "github.com/restaurant-roulette/internal/repository/redis"
	"github.com/restaurant-roulette/internal/usecase"
	"github.com/restaurant-roulette/internal/worker"
	"github.com/restaurant-roulette/internal/worker/stats"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Restaurant Roulette API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("rate_limit_backend", cfg.RateLimit.Backend),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("database_enabled", cfg.Database.Enabled),
	)

	if cfg.Places.APIKey == "" {
		// сервер поднимается, но поиск отвечает SERVER_MISCONFIGURATION
		log.Warn("Google Places API key is not set, search endpoints will fail")
	}

	healthCheckers := make(map[string]handler.HealthChecker)

	// 3. Optional Redis: кеш, стрим событий, статистика, общий rate limit
	var (
		redisClient *cache.Redis
		cacheRepo   repository.CacheRepository
		streamRepo  repository.StreamRepository
		statsRepo   repository.StatsRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		cacheRepo = cache.NewCacheRepository(redisClient)
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
		statsRepo = cache.NewStatsRepository(redisClient)
		healthCheckers["redis"] = redisClient
		log.Info("Redis repositories initialized")
	}

	// 4. Optional PostgreSQL: постоянный кеш геокодирования
	var geocodeCacheRepo repository.GeocodeCacheRepository
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := postgres.New(ctx, &cfg.Database, log)
		if err != nil {
			cancel()
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		err = db.Migrate(ctx)
		cancel()
		if err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}

		geocodeCacheRepo = postgres.NewGeocodeCacheRepository(db)
		healthCheckers["postgres"] = db
		log.Info("PostgreSQL repositories initialized")
	}

	// 5. Rate limit store
	var (
		rateLimitStore repository.RateLimitRepository
		sweeper        *memory.Sweeper
	)
	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendRedis:
		rateLimitStore = cache.NewRateLimitStore(redisClient, cfg.MaxRateLimitWindow())
	default:
		memoryStore := memory.NewRateLimitStore()
		sweeper = memory.NewSweeper(memoryStore, cfg.MaxRateLimitWindow(), log)
		if err := sweeper.Start(cfg.RateLimit.SweepSchedule); err != nil {
			log.Fatal("Failed to start rate limit sweeper", zap.Error(err))
		}
		rateLimitStore = memoryStore
	}
	limiter := ratelimit.New(rateLimitStore, log)

	// 6. Upstream client
	googleClient := google.NewClient(&cfg.Places, log)

	// 7. Initialize Use Cases
	restaurantUC := usecase.NewRestaurantUseCase(
		googleClient,
		cacheRepo,
		streamRepo,
		cfg.Places.APIKey,
		cfg.Cache.RestaurantsCacheTTL,
		log,
	)
	geocodeUC := usecase.NewGeocodeUseCase(googleClient, geocodeCacheRepo, cfg.Places.APIKey, log)
	autocompleteUC := usecase.NewAutocompleteUseCase(googleClient, cfg.Places.APIKey, log)
	statsUC := usecase.NewStatsUseCase(statsRepo, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	restaurantHandler := handler.NewRestaurantHandler(restaurantUC, log)
	geocodeHandler := handler.NewGeocodeHandler(geocodeUC, log)
	autocompleteHandler := handler.NewAutocompleteHandler(autocompleteUC, log)
	statsHandler := handler.NewStatsHandler(statsUC, log)
	healthHandler := handler.NewHealthHandler(healthCheckers, log)

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		limiter,
		restaurantHandler,
		geocodeHandler,
		autocompleteHandler,
		statsHandler,
		healthHandler,
	)

	// 10. In-process stats worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var workerManager *worker.WorkerManager
	if cfg.Worker.Enabled && streamRepo != nil {
		workerManager = worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
		statsWorker := stats.NewSearchStatsWorker(streamRepo, statsUC, cfg.Worker.ConsumerGroup, cfg.Worker.BatchSize, log)
		if err := workerManager.Register(statsWorker); err != nil {
			log.Fatal("Failed to register worker", zap.Error(err))
		}
		if err := workerManager.Start(ctx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	cancel()
	if workerManager != nil {
		if err := workerManager.Stop(); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
		}
	}

	if sweeper != nil {
		sweeper.Stop()
	}

	log.Info("Server stopped successfully")
}
