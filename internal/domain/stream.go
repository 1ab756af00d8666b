package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamRestaurantsSearched = "stream:restaurants:searched"
)

// SearchEvent - событие об успешном поиске ресторанов
type SearchEvent struct {
	ID          uuid.UUID          `json:"id"`
	Request     RestaurantsRequest `json:"request"`
	ResultCount int                `json:"result_count"`
	CacheHit    bool               `json:"cache_hit"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// NewSearchEvent создаёт событие с новым ID
func NewSearchEvent(req RestaurantsRequest, resultCount int, cacheHit bool, at time.Time) SearchEvent {
	return SearchEvent{
		ID:          uuid.New(),
		Request:     req,
		ResultCount: resultCount,
		CacheHit:    cacheHit,
		OccurredAt:  at.UTC(),
	}
}

// HasCuisineFilter проверяет, ограничен ли поиск кухнями
func (e *SearchEvent) HasCuisineFilter() bool {
	return len(e.Request.Cuisines) > 0
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
