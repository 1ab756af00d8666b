package ratelimit

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain/repository"
)

// UnknownClient - общий ключ для клиентов без идентифицирующих заголовков
const UnknownClient = "unknown"

// Decision - результат проверки лимита
type Decision struct {
	Allowed           bool
	RetryAfterSeconds int
}

// Limiter - fixed window rate limiter поверх хранилища счётчиков.
// Атомарность учёта обеспечивает хранилище, поэтому лимит общий для всех инстансов с одним хранилищем.
type Limiter struct {
	store  repository.RateLimitRepository
	logger *zap.Logger
	now    func() time.Time
}

// Option настраивает Limiter
type Option func(*Limiter)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

func New(store repository.RateLimitRepository, logger *zap.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check учитывает запрос клиента key и решает, пропускать ли его.
// Ошибка хранилища не блокирует клиента: запрос пропускается, ошибка логируется и возвращается.
func (l *Limiter) Check(ctx context.Context, key string, maxRequests int, window time.Duration) (Decision, error) {
	now := l.now()

	entry, counted, err := l.store.Hit(ctx, key, now, window, maxRequests)
	if err != nil {
		l.logger.Warn("Rate limit store failed, allowing request",
			zap.String("key", key), zap.Error(err))
		return Decision{Allowed: true}, err
	}
	if counted {
		return Decision{Allowed: true}, nil
	}

	remaining := entry.WindowStartedAt.Add(window).Sub(now)
	retryAfter := int(math.Ceil(remaining.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return Decision{Allowed: false, RetryAfterSeconds: retryAfter}, nil
}

// ClientKey определяет ключ клиента: первый адрес из X-Forwarded-For, затем X-Real-IP, затем "unknown"
func ClientKey(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
		return UnknownClient
	}
	if realIP = strings.TrimSpace(realIP); realIP != "" {
		return realIP
	}
	return UnknownClient
}
