package domain

import "time"

// RateLimitEntry - счётчик запросов клиента в текущем фиксированном окне
type RateLimitEntry struct {
	Count           int       `json:"count"`
	WindowStartedAt time.Time `json:"window_started_at"`
}

// Expired проверяет, закончилось ли окно к моменту now
func (e RateLimitEntry) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(e.WindowStartedAt) >= window
}

// NextRateLimitEntry - переход счётчика при очередном запросе.
// Нет записи или окно истекло: новое окно с Count=1. Лимит исчерпан: запись без изменений, false.
// Иначе Count+1. Хранилища выполняют этот переход атомарно.
func NextRateLimitEntry(current *RateLimitEntry, now time.Time, window time.Duration, maxRequests int) (RateLimitEntry, bool) {
	if current == nil || current.Expired(now, window) {
		return RateLimitEntry{Count: 1, WindowStartedAt: now}, true
	}
	if current.Count >= maxRequests {
		return *current, false
	}
	next := *current
	next.Count++
	return next, true
}
