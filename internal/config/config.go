package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Places    PlacesConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host             string
	Port             int
	Env              string
	CORSAllowOrigins string
}

// PlacesConfig - настройки upstream Google Places / Geocoding API
type PlacesConfig struct {
	APIKey                 string
	BaseURL                string
	RequestTimeout         time.Duration
	OutboundRPS            int
	AutocompleteComponents string
}

type RateLimitConfig struct {
	Backend                string
	MaxRequests            int
	Window                 time.Duration
	AutocompleteMaxRequest int
	AutocompleteWindow     time.Duration
	SweepSchedule          string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	RestaurantsCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	BatchSize     int
}

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// apiKeyEnvs - переменные окружения с ключом Places API в порядке приоритета
var apiKeyEnvs = []string{"GOOGLE_PLACES_SERVER_KEY", "MAPS_API", "MAPS_API_KEY"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api")
	v.SetDefault("PLACES_REQUEST_TIMEOUT_MS", 9000)
	v.SetDefault("PLACES_OUTBOUND_RPS", 10)
	v.SetDefault("AUTOCOMPLETE_COMPONENTS", "country:us")

	v.SetDefault("RATE_LIMIT_BACKEND", RateLimitBackendMemory)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 50)
	v.SetDefault("RATE_LIMIT_WINDOW_MS", 60000)
	v.SetDefault("AUTOCOMPLETE_RATE_LIMIT_MAX_REQUESTS", 30)
	v.SetDefault("AUTOCOMPLETE_RATE_LIMIT_WINDOW_MS", 60000)
	v.SetDefault("RATE_LIMIT_SWEEP_SCHEDULE", "@every 1m")

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("RESTAURANTS_CACHE_TTL", 20)

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("WORKER_CONSUMER_GROUP", "restaurant-stats-workers")
	v.SetDefault("WORKER_BATCH_SIZE", 20)
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// .env необязателен: в контейнерах конфигурация приходит из окружения
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:             v.GetString("API_HOST"),
			Port:             v.GetInt("API_PORT"),
			Env:              v.GetString("API_ENV"),
			CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Places: PlacesConfig{
			APIKey:                 firstNonEmpty(v, apiKeyEnvs),
			BaseURL:                strings.TrimRight(v.GetString("PLACES_BASE_URL"), "/"),
			RequestTimeout:         time.Duration(v.GetInt("PLACES_REQUEST_TIMEOUT_MS")) * time.Millisecond,
			OutboundRPS:            v.GetInt("PLACES_OUTBOUND_RPS"),
			AutocompleteComponents: v.GetString("AUTOCOMPLETE_COMPONENTS"),
		},
		RateLimit: RateLimitConfig{
			Backend:                strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
			MaxRequests:            v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
			Window:                 time.Duration(v.GetInt("RATE_LIMIT_WINDOW_MS")) * time.Millisecond,
			AutocompleteMaxRequest: v.GetInt("AUTOCOMPLETE_RATE_LIMIT_MAX_REQUESTS"),
			AutocompleteWindow:     time.Duration(v.GetInt("AUTOCOMPLETE_RATE_LIMIT_WINDOW_MS")) * time.Millisecond,
			SweepSchedule:          v.GetString("RATE_LIMIT_SWEEP_SCHEDULE"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			RestaurantsCacheTTL: time.Duration(v.GetInt("RESTAURANTS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.RateLimit.Backend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("RATE_LIMIT_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}

	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit max requests and window must be positive")
	}
	if c.RateLimit.AutocompleteMaxRequest <= 0 || c.RateLimit.AutocompleteWindow <= 0 {
		return fmt.Errorf("autocomplete rate limit max requests and window must be positive")
	}
	if c.Places.RequestTimeout <= 0 {
		return fmt.Errorf("PLACES_REQUEST_TIMEOUT_MS must be positive")
	}
	if c.Worker.BatchSize <= 0 {
		c.Worker.BatchSize = 20
	}

	return nil
}

func firstNonEmpty(v *viper.Viper, keys []string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(v.GetString(key)); value != "" {
			return value
		}
	}
	return ""
}

// MaxRateLimitWindow - наибольшее окно среди всех лимитов, используется для TTL и очистки
func (c *Config) MaxRateLimitWindow() time.Duration {
	if c.RateLimit.AutocompleteWindow > c.RateLimit.Window {
		return c.RateLimit.AutocompleteWindow
	}
	return c.RateLimit.Window
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения в формате key=value для драйвера pgx
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.DBName,
		d.SSLMode,
	)
}
