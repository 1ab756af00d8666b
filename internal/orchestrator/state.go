package orchestrator

import (
	"slices"

	"github.com/restaurant-roulette/internal/domain"
)

// LocationState - этап получения местоположения
type LocationState string

const (
	LocationIdle        LocationState = "idle"
	LocationRequesting  LocationState = "requesting"
	LocationGranted     LocationState = "granted"
	LocationDenied      LocationState = "denied"
	LocationUnsupported LocationState = "unsupported"
)

// State - снимок состояния поиска.
// Выбранный и подсвеченный ресторан - это одна и та же "точка внимания": выбор пользователем
// выставляет оба поля, а рулетка во время вращения меняет только подсветку.
type State struct {
	LocationState           LocationState
	Coordinates             *domain.Coordinates
	Filters                 domain.SearchFilters
	Restaurants             []domain.RestaurantCard
	SelectedRestaurantID    string
	HighlightedRestaurantID string
	Loading                 bool
	ErrorMessage            string
	IsSelectingWinner       bool
	Winner                  *domain.RestaurantCard
	LastSearchKey           string
}

func initialState() State {
	return State{
		LocationState: LocationIdle,
		Filters:       domain.DefaultFilters(),
		Restaurants:   []domain.RestaurantCard{},
	}
}

// clone - глубокая копия, чтобы наблюдатели не видели последующих изменений
func (s State) clone() State {
	s.Filters = s.Filters.Clone()
	s.Restaurants = slices.Clone(s.Restaurants)
	if s.Restaurants == nil {
		s.Restaurants = []domain.RestaurantCard{}
	}
	if s.Coordinates != nil {
		c := *s.Coordinates
		s.Coordinates = &c
	}
	if s.Winner != nil {
		w := *s.Winner
		s.Winner = &w
	}
	return s
}

// SearchKey - ключ поиска для текущих координат и фильтров; пустой без координат
func (s State) SearchKey() string {
	if s.Coordinates == nil {
		return ""
	}
	return domain.NewRestaurantsRequest(*s.Coordinates, s.Filters).Key()
}
