package repository

import (
	"context"
	"time"

	"github.com/restaurant-roulette/internal/domain"
)

// RateLimitRepository - хранилище счётчиков rate limiter
type RateLimitRepository interface {
	// Hit атомарно (в пределах хранилища, в том числе между инстансами) учитывает запрос
	// по правилам domain.NextRateLimitEntry. Возвращает запись после учёта и признак,
	// засчитан ли запрос.
	Hit(ctx context.Context, key string, now time.Time, window time.Duration, maxRequests int) (domain.RateLimitEntry, bool, error)
}
