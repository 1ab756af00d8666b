// Package orchestrator - клиентская машина состояний поиска: местоположение, фильтры,
// результаты, выбор ресторана и запуск рулетки победителя.
package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/client"
	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/usecase/dto"
	"github.com/restaurant-roulette/internal/winner"
)

const (
	msgNoLocation    = "Choose a location before searching."
	msgSearchFailed  = "Failed to fetch nearby restaurants."
	msgGeocodeFailed = "Failed to geocode address"
)

var (
	// ErrNoLocation - поиск без координат, сервер не вызывается
	ErrNoLocation = stderrors.New(msgNoLocation)
	// ErrStaleSearch - ответ пришёл после начала более нового поиска и отброшен
	ErrStaleSearch = stderrors.New("search superseded by a newer search")
	ErrClosed      = stderrors.New("orchestrator is closed")

	ErrUnsupportedRadius = stderrors.New("unsupported radius")
	ErrUnsupportedSort   = stderrors.New("unsupported sort order")
	ErrUnknownCuisine    = stderrors.New("unknown cuisine")
	ErrTooManyCuisines   = fmt.Errorf("a maximum of %d cuisines can be selected", domain.MaxCuisines)
)

// API - серверная часть, с которой работает оркестратор
type API interface {
	Restaurants(ctx context.Context, req domain.RestaurantsRequest) (*dto.RestaurantsResponse, error)
	Geocode(ctx context.Context, address string) (*dto.GeocodeResponse, error)
}

// Orchestrator владеет State; все изменения проходят через именованные переходы под мьютексом
type Orchestrator struct {
	api        API
	locator    Locator
	engineCfg  winner.Config
	picker     winner.Picker
	observer   func(State)
	logger     *zap.Logger
	autoSearch bool

	mu           sync.Mutex
	state        State
	version      uint64
	searchGen    uint64
	selection    *winner.Selection
	selectionGen uint64
	closed       bool
	// autoSearchedAt - координаты последнего автоматического поиска
	autoSearchedAt *domain.Coordinates

	notifyMu sync.Mutex
	notified uint64
}

// Option настраивает Orchestrator
type Option func(*Orchestrator)

// WithLocator задаёт источник местоположения; без него RequestLocation даёт "unsupported"
func WithLocator(l Locator) Option {
	return func(o *Orchestrator) {
		o.locator = l
	}
}

func WithEngineConfig(cfg winner.Config) Option {
	return func(o *Orchestrator) {
		o.engineCfg = cfg
	}
}

func WithPicker(p winner.Picker) Option {
	return func(o *Orchestrator) {
		o.picker = p
	}
}

// WithObserver подписывает на снимки состояния после каждого перехода.
// Снимки приходят по порядку; устаревший снимок никогда не доставляется после более нового.
// Наблюдатель может читать State, но не должен вызывать изменяющие методы.
func WithObserver(fn func(State)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// WithAutoSearch включает поиск при переходе к новым координатам (MoveTo, геокодинг, местоположение).
// Повторный переход к тем же координатам поиск не запускает. Изменение фильтров не ищет никогда.
func WithAutoSearch() Option {
	return func(o *Orchestrator) {
		o.autoSearch = true
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func New(api API, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:       api,
		engineCfg: winner.DefaultConfig(),
		picker:    winner.NewPicker(),
		logger:    zap.NewNop(),
		state:     initialState(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State возвращает копию текущего состояния
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// update применяет переход под мьютексом и уведомляет наблюдателя уже без него
func (o *Orchestrator) update(fn func(s *State)) {
	o.mu.Lock()
	fn(&o.state)
	snap, v := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap, v)
}

func (o *Orchestrator) snapshotLocked() (State, uint64) {
	o.version++
	return o.state.clone(), o.version
}

func (o *Orchestrator) notify(s State, version uint64) {
	if o.observer == nil {
		return
	}
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	if version <= o.notified {
		return
	}
	o.notified = version
	o.observer(s)
}

// RequestLocation запрашивает координаты у Locator: requesting -> granted | denied.
// Без Locator состояние сразу unsupported.
func (o *Orchestrator) RequestLocation(ctx context.Context) error {
	if o.locator == nil {
		o.update(func(s *State) {
			s.LocationState = LocationUnsupported
		})
		return ErrLocationUnsupported
	}

	o.update(func(s *State) {
		s.LocationState = LocationRequesting
	})

	coords, err := o.locator.Locate(ctx)
	if err != nil {
		o.logger.Debug("Location request failed", zap.Error(err))
		o.update(func(s *State) {
			s.LocationState = LocationDenied
		})
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	o.MoveTo(ctx, coords)
	return nil
}

// SetCoordinates задаёт точку поиска напрямую (granted), без поиска
func (o *Orchestrator) SetCoordinates(c domain.Coordinates) {
	o.update(func(s *State) {
		s.Coordinates = &c
		s.LocationState = LocationGranted
	})
}

// MoveTo задаёт точку поиска и, с WithAutoSearch, ищет для новых координат.
// Ошибка поиска попадает в State.ErrorMessage.
func (o *Orchestrator) MoveTo(ctx context.Context, c domain.Coordinates) {
	o.SetCoordinates(c)

	o.mu.Lock()
	if !o.autoSearch || o.closed || (o.autoSearchedAt != nil && *o.autoSearchedAt == c) {
		o.mu.Unlock()
		return
	}
	o.autoSearchedAt = &c
	o.mu.Unlock()

	if err := o.Search(ctx); err != nil {
		o.logger.Debug("Automatic search failed", zap.Error(err))
	}
}

// GeocodeAddress переводит адрес в координаты через сервер. Пустой адрес игнорируется.
// Ошибка показывается так же, как ошибка поиска.
func (o *Orchestrator) GeocodeAddress(ctx context.Context, address string) error {
	if strings.TrimSpace(address) == "" {
		return nil
	}

	resp, err := o.api.Geocode(ctx, address)
	if err != nil {
		o.logger.Debug("Geocode failed", zap.String("address", address), zap.Error(err))
		o.update(func(s *State) {
			s.fail(userMessage(err, msgGeocodeFailed))
		})
		return err
	}

	o.MoveTo(ctx, domain.Coordinates{Latitude: resp.Latitude, Longitude: resp.Longitude})
	return nil
}

// Search ищет рестораны для текущих координат и фильтров.
// Более новый поиск вытесняет старый: поздний ответ старого отбрасывается (ErrStaleSearch).
// Начало поиска отменяет идущий выбор победителя.
func (o *Orchestrator) Search(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	if o.state.Coordinates == nil {
		o.state.fail(msgNoLocation)
		snap, v := o.snapshotLocked()
		o.mu.Unlock()
		o.notify(snap, v)
		return ErrNoLocation
	}

	req := domain.NewRestaurantsRequest(*o.state.Coordinates, o.state.Filters)
	o.searchGen++
	gen := o.searchGen
	o.cancelSelectionLocked()
	o.state.Loading = true
	o.state.ErrorMessage = ""
	o.state.Winner = nil
	snap, v := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap, v)

	resp, err := o.api.Restaurants(ctx, req)

	o.mu.Lock()
	if gen != o.searchGen {
		o.mu.Unlock()
		o.logger.Debug("Discarding stale search response", zap.Uint64("generation", gen))
		return ErrStaleSearch
	}

	if err != nil {
		o.state.fail(userMessage(err, msgSearchFailed))
	} else {
		restaurants := resp.Restaurants
		if restaurants == nil {
			restaurants = []domain.RestaurantCard{}
		}
		o.state.Loading = false
		o.state.Restaurants = restaurants
		o.state.SelectedRestaurantID = ""
		if len(restaurants) > 0 {
			o.state.SelectedRestaurantID = restaurants[0].ID
		}
		o.state.HighlightedRestaurantID = ""
		o.state.LastSearchKey = req.Key()
	}
	snap, v = o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap, v)

	return err
}

// SearchAndPickWinner запускает рулетку. Если результаты для текущих координат и фильтров уже есть,
// повторного запроса нет; иначе сначала поиск, и рулетка только при непустом результате.
// Во время загрузки или выбора ничего не делает.
func (o *Orchestrator) SearchAndPickWinner(ctx context.Context) error {
	o.mu.Lock()
	if o.closed || o.state.Coordinates == nil || o.state.IsSelectingWinner || o.state.Loading {
		o.mu.Unlock()
		return nil
	}

	key := o.state.SearchKey()
	if key == o.state.LastSearchKey && len(o.state.Restaurants) > 0 {
		o.startSelectionLocked()
		snap, v := o.snapshotLocked()
		o.mu.Unlock()
		o.notify(snap, v)
		return nil
	}
	o.mu.Unlock()

	if err := o.Search(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	if o.closed || o.state.Loading || o.state.IsSelectingWinner ||
		o.state.LastSearchKey != key || len(o.state.Restaurants) == 0 {
		o.mu.Unlock()
		return nil
	}
	o.startSelectionLocked()
	snap, v := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap, v)
	return nil
}

// StartWinnerSelection запускает рулетку по текущему списку; пустой список или уже идущий выбор - no-op
func (o *Orchestrator) StartWinnerSelection() {
	o.mu.Lock()
	if o.closed || len(o.state.Restaurants) == 0 || o.state.IsSelectingWinner {
		o.mu.Unlock()
		return
	}
	o.startSelectionLocked()
	snap, v := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap, v)
}

func (o *Orchestrator) startSelectionLocked() {
	o.cancelSelectionLocked()

	o.selectionGen++
	gen := o.selectionGen
	o.state.IsSelectingWinner = true
	o.state.Winner = nil

	o.selection = winner.Start(o.state.Restaurants, o.engineCfg, o.picker,
		func(c domain.RestaurantCard) { o.onTick(gen, c) },
		func(c domain.RestaurantCard) { o.onCommit(gen, c) },
	)
}

// cancelSelectionLocked останавливает текущий выбор; его запоздавшие колбэки отсекаются по поколению
func (o *Orchestrator) cancelSelectionLocked() {
	if o.selection != nil {
		o.selection.Cancel()
		o.selection = nil
	}
	o.selectionGen++
	o.state.IsSelectingWinner = false
}

func (o *Orchestrator) onTick(gen uint64, c domain.RestaurantCard) {
	o.mu.Lock()
	if gen != o.selectionGen || !o.state.IsSelectingWinner {
		o.mu.Unlock()
		return
	}
	o.state.HighlightedRestaurantID = c.ID
	snap, v := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap, v)
}

func (o *Orchestrator) onCommit(gen uint64, c domain.RestaurantCard) {
	o.mu.Lock()
	if gen != o.selectionGen || !o.state.IsSelectingWinner {
		o.mu.Unlock()
		return
	}
	o.state.IsSelectingWinner = false
	o.state.Winner = &c
	o.state.SelectedRestaurantID = c.ID
	o.state.HighlightedRestaurantID = c.ID
	o.selection = nil
	snap, v := o.snapshotLocked()
	o.mu.Unlock()

	o.logger.Debug("Winner selected", zap.String("id", c.ID), zap.String("name", c.Name))
	o.notify(snap, v)
}

// WaitSelection ждёт завершения текущего выбора победителя (если он идёт)
func (o *Orchestrator) WaitSelection(ctx context.Context) error {
	o.mu.Lock()
	sel := o.selection
	o.mu.Unlock()

	if sel == nil {
		return nil
	}

	select {
	case <-sel.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DismissWinner убирает победителя (и останавливает идущий выбор); список и выбор не трогает
func (o *Orchestrator) DismissWinner() {
	o.update(func(s *State) {
		o.cancelSelectionLocked()
		s.Winner = nil
	})
}

// SelectRestaurant - выбор пользователем: ресторан становится и выбранным, и подсвеченным
func (o *Orchestrator) SelectRestaurant(id string) {
	o.update(func(s *State) {
		s.SelectedRestaurantID = id
		s.HighlightedRestaurantID = id
	})
}

// Фильтры меняются без автоматического поиска: новый запрос только по явному Search

func (o *Orchestrator) UpdateRadius(r domain.RadiusMeters) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedRadius, r)
	}
	o.update(func(s *State) {
		s.Filters.RadiusMeters = r
	})
	return nil
}

func (o *Orchestrator) UpdateSort(sortBy domain.SortBy) error {
	if !sortBy.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedSort, sortBy)
	}
	o.update(func(s *State) {
		s.Filters.SortBy = sortBy
	})
	return nil
}

func (o *Orchestrator) UpdateOpenNow(openNow bool) {
	o.update(func(s *State) {
		s.Filters.OpenNow = openNow
	})
}

// ToggleCuisine добавляет кухню в конец списка или убирает её
func (o *Orchestrator) ToggleCuisine(id domain.CuisineID) error {
	id = domain.CuisineID(strings.ToLower(strings.TrimSpace(string(id))))
	if !domain.IsKnownCuisine(id) {
		return fmt.Errorf("%w: %s", ErrUnknownCuisine, id)
	}

	var err error
	o.update(func(s *State) {
		cuisines := s.Filters.Cuisines
		for i, c := range cuisines {
			if c == id {
				s.Filters.Cuisines = append(cuisines[:i:i], cuisines[i+1:]...)
				return
			}
		}
		if len(cuisines) >= domain.MaxCuisines {
			err = ErrTooManyCuisines
			return
		}
		s.Filters.Cuisines = append(cuisines[:len(cuisines):len(cuisines)], id)
	})
	return err
}

// Close останавливает выбор победителя и отбрасывает ответы незавершённых поисков
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.cancelSelectionLocked()
	o.searchGen++
}

// fail - ошибка поиска: список и выбор очищаются, чтобы не показывать устаревшие данные рядом с ошибкой
func (s *State) fail(message string) {
	s.Loading = false
	s.Restaurants = []domain.RestaurantCard{}
	s.SelectedRestaurantID = ""
	s.HighlightedRestaurantID = ""
	s.ErrorMessage = message
}

// userMessage - текст ошибки для пользователя: сообщение сервера или общий fallback
func userMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if stderrors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
