package memory

import (
	"context"
	"sync"
	"time"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
)

// RateLimitStore - счётчики rate limiter в памяти процесса.
// Состояние теряется при перезапуске; рост ключей ограничивается периодическим Sweep.
type RateLimitStore struct {
	mu      sync.RWMutex
	entries map[string]domain.RateLimitEntry
}

var _ repository.RateLimitRepository = (*RateLimitStore)(nil)

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		entries: make(map[string]domain.RateLimitEntry),
	}
}

// Hit учитывает запрос под блокировкой хранилища
func (s *RateLimitStore) Hit(_ context.Context, key string, now time.Time, window time.Duration, maxRequests int) (domain.RateLimitEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current *domain.RateLimitEntry
	if entry, ok := s.entries[key]; ok {
		current = &entry
	}

	next, counted := domain.NextRateLimitEntry(current, now, window, maxRequests)
	if counted {
		s.entries[key] = next
	}
	return next, counted, nil
}

// Sweep удаляет записи, окно которых началось раньше cutoff; возвращает число удалённых
func (s *RateLimitStore) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.WindowStartedAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len - количество отслеживаемых клиентов
func (s *RateLimitStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
