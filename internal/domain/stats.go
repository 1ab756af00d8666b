package domain

import "time"

// SearchStats - агрегированная статистика поисков
type SearchStats struct {
	TotalSearches   int64            `json:"total_searches"`
	CacheHits       int64            `json:"cache_hits"`
	EmptyResults    int64            `json:"empty_results"`
	OpenNowSearches int64            `json:"open_now_searches"`
	ByCuisine       map[string]int64 `json:"by_cuisine"`
	ByRadius        map[string]int64 `json:"by_radius"`
	BySort          map[string]int64 `json:"by_sort"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
