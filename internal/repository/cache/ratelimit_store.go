package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
)

const rateLimitKeyPrefix = "ratelimit:"

// hitScript - тот же переход, что domain.NextRateLimitEntry, но внутри Redis,
// чтобы чтение и запись счётчика не разделялись между инстансами.
// KEYS[1] - ключ; ARGV: now (ms), window (ms), max, ttl (ms).
// Ответ: {count, window_started_at (ms), counted (0|1)}.
var hitScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local fields = redis.call('HMGET', KEYS[1], 'count', 'start')
local count = tonumber(fields[1])
local start = tonumber(fields[2])

if count == nil or start == nil or now - start >= window then
  redis.call('HSET', KEYS[1], 'count', 1, 'start', now)
  redis.call('PEXPIRE', KEYS[1], ttl)
  return {1, now, 1}
end

if count >= max then
  return {count, start, 0}
end

count = redis.call('HINCRBY', KEYS[1], 'count', 1)
return {count, start, 1}
`)

// rateLimitStore - общие для всех инстансов счётчики rate limiter в Redis.
// TTL не меньше наибольшего окна, поэтому отдельная очистка не нужна.
type rateLimitStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRateLimitStore(redis *Redis, ttl time.Duration) repository.RateLimitRepository {
	return newRateLimitStore(redis.Client(), ttl, redis.logger)
}

func newRateLimitStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *rateLimitStore {
	return &rateLimitStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *rateLimitStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration, maxRequests int) (domain.RateLimitEntry, bool, error) {
	ttl := s.ttl
	if ttl < window {
		ttl = window
	}

	res, err := hitScript.Run(ctx, s.client, []string{rateLimitKeyPrefix + key},
		now.UnixMilli(),
		window.Milliseconds(),
		maxRequests,
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return domain.RateLimitEntry{}, false, fmt.Errorf("rate limit hit: %w", err)
	}
	if len(res) != 3 {
		return domain.RateLimitEntry{}, false, fmt.Errorf("rate limit hit: unexpected reply length %d", len(res))
	}

	entry := domain.RateLimitEntry{
		Count:           int(res[0]),
		WindowStartedAt: time.UnixMilli(res[1]),
	}
	return entry, res[2] == 1, nil
}
