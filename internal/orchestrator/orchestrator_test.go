package orchestrator

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/restaurant-roulette/internal/client"
	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/usecase/dto"
	"github.com/restaurant-roulette/internal/winner"
)

// MockAPI is a mock of API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Restaurants(ctx context.Context, req domain.RestaurantsRequest) (*dto.RestaurantsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RestaurantsResponse), args.Error(1)
}

func (m *MockAPI) Geocode(ctx context.Context, address string) (*dto.GeocodeResponse, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GeocodeResponse), args.Error(1)
}

var (
	origin   = domain.Coordinates{Latitude: 40.7128, Longitude: -74.006}
	fastSpin = winner.Config{TickInterval: 2 * time.Millisecond, Duration: 25 * time.Millisecond}
	slowSpin = winner.Config{TickInterval: 2 * time.Millisecond, Duration: time.Hour}
)

func lastPicker(n int) int { return n - 1 }

func response(ids ...string) *dto.RestaurantsResponse {
	cards := make([]domain.RestaurantCard, len(ids))
	for i, id := range ids {
		cards[i] = domain.RestaurantCard{ID: id, Name: "R " + id}
	}
	return &dto.RestaurantsResponse{
		Restaurants: cards,
		Meta:        dto.RestaurantsMeta{Total: len(cards), Source: dto.SourceGooglePlaces},
	}
}

func radiusIs(r domain.RadiusMeters) interface{} {
	return mock.MatchedBy(func(req domain.RestaurantsRequest) bool {
		return req.RadiusMeters == r
	})
}

func TestOrchestrator_InitialState(t *testing.T) {
	o := New(&MockAPI{})
	s := o.State()

	assert.Equal(t, LocationIdle, s.LocationState)
	assert.Nil(t, s.Coordinates)
	assert.Equal(t, domain.DefaultFilters(), s.Filters)
	assert.Empty(t, s.Restaurants)
	assert.False(t, s.Loading)
}

func TestOrchestrator_SearchWithoutLocation(t *testing.T) {
	api := &MockAPI{}
	o := New(api)

	err := o.Search(context.Background())

	assert.ErrorIs(t, err, ErrNoLocation)
	s := o.State()
	assert.Equal(t, "Choose a location before searching.", s.ErrorMessage)
	assert.False(t, s.Loading)
	api.AssertNotCalled(t, "Restaurants", mock.Anything, mock.Anything)
}

func TestOrchestrator_SearchSuccess(t *testing.T) {
	api := &MockAPI{}
	var states []State
	var mu sync.Mutex
	o := New(api, WithObserver(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	}))
	o.SetCoordinates(origin)

	api.On("Restaurants", mock.Anything, domain.NewRestaurantsRequest(origin, domain.DefaultFilters())).
		Return(response("a", "b"), nil).Once()

	require.NoError(t, o.Search(context.Background()))

	s := o.State()
	assert.False(t, s.Loading)
	assert.Len(t, s.Restaurants, 2)
	assert.Equal(t, "a", s.SelectedRestaurantID)
	assert.Empty(t, s.HighlightedRestaurantID)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, s.SearchKey(), s.LastSearchKey)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(states), 3)
	assert.Equal(t, LocationGranted, states[0].LocationState)
	assert.True(t, states[1].Loading, "search must publish the loading state")
	assert.False(t, states[len(states)-1].Loading)
	api.AssertExpectations(t)
}

func TestOrchestrator_SearchEmptyResult(t *testing.T) {
	api := &MockAPI{}
	o := New(api)
	o.SetCoordinates(origin)
	api.On("Restaurants", mock.Anything, mock.Anything).Return(response(), nil)

	require.NoError(t, o.Search(context.Background()))

	s := o.State()
	assert.Empty(t, s.Restaurants)
	assert.Empty(t, s.SelectedRestaurantID)
}

func TestOrchestrator_SearchFailureClearsResults(t *testing.T) {
	api := &MockAPI{}
	o := New(api)
	o.SetCoordinates(origin)

	api.On("Restaurants", mock.Anything, mock.Anything).Return(response("a"), nil).Once()
	require.NoError(t, o.Search(context.Background()))
	o.SelectRestaurant("a")

	apiErr := &client.APIError{StatusCode: 502, Code: "UPSTREAM_ERROR", Message: "Google Places request timed out."}
	api.On("Restaurants", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	err := o.Search(context.Background())
	assert.ErrorIs(t, err, apiErr)

	s := o.State()
	assert.Empty(t, s.Restaurants)
	assert.Empty(t, s.SelectedRestaurantID)
	assert.Empty(t, s.HighlightedRestaurantID)
	assert.Equal(t, "Google Places request timed out.", s.ErrorMessage)
	assert.False(t, s.Loading)
}

func TestOrchestrator_TransportFailureMessage(t *testing.T) {
	api := &MockAPI{}
	o := New(api)
	o.SetCoordinates(origin)
	api.On("Restaurants", mock.Anything, mock.Anything).Return(nil, stderrors.New("dial tcp: connection refused"))

	require.Error(t, o.Search(context.Background()))
	assert.Equal(t, "Failed to fetch nearby restaurants.", o.State().ErrorMessage)
}

func TestOrchestrator_FiltersDoNotSearch(t *testing.T) {
	api := &MockAPI{}
	o := New(api)
	o.SetCoordinates(origin)

	require.NoError(t, o.UpdateRadius(domain.Radius6000))
	require.NoError(t, o.UpdateSort(domain.SortByRating))
	o.UpdateOpenNow(false)
	require.NoError(t, o.ToggleCuisine("Thai"))

	s := o.State()
	assert.Equal(t, domain.Radius6000, s.Filters.RadiusMeters)
	assert.Equal(t, domain.SortByRating, s.Filters.SortBy)
	assert.False(t, s.Filters.OpenNow)
	assert.Equal(t, []domain.CuisineID{"thai"}, s.Filters.Cuisines)
	api.AssertNotCalled(t, "Restaurants", mock.Anything, mock.Anything)
}

func TestOrchestrator_InvalidFilters(t *testing.T) {
	o := New(&MockAPI{})

	assert.ErrorIs(t, o.UpdateRadius(2000), ErrUnsupportedRadius)
	assert.ErrorIs(t, o.UpdateSort("price"), ErrUnsupportedSort)
	assert.ErrorIs(t, o.ToggleCuisine("klingon"), ErrUnknownCuisine)
	assert.Equal(t, domain.DefaultFilters(), o.State().Filters)
}

func TestOrchestrator_ToggleCuisine(t *testing.T) {
	o := New(&MockAPI{})

	for _, c := range []domain.CuisineID{"thai", "italian", "korean"} {
		require.NoError(t, o.ToggleCuisine(c))
	}
	require.NoError(t, o.ToggleCuisine("italian"))
	assert.Equal(t, []domain.CuisineID{"thai", "korean"}, o.State().Filters.Cuisines)

	for _, c := range []domain.CuisineID{"american", "chinese", "french", "indian"} {
		require.NoError(t, o.ToggleCuisine(c))
	}
	assert.ErrorIs(t, o.ToggleCuisine("mexican"), ErrTooManyCuisines)
	assert.Len(t, o.State().Filters.Cuisines, domain.MaxCuisines)
}

func TestOrchestrator_SelectRestaurantSetsBoth(t *testing.T) {
	o := New(&MockAPI{})
	o.SelectRestaurant("x")

	s := o.State()
	assert.Equal(t, "x", s.SelectedRestaurantID)
	assert.Equal(t, "x", s.HighlightedRestaurantID)
}

func TestOrchestrator_StaleSearchDiscarded(t *testing.T) {
	api := &MockAPI{}
	o := New(api)
	o.SetCoordinates(origin)

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("Restaurants", mock.Anything, radiusIs(domain.Radius3000)).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(response("old"), nil).Once()
	api.On("Restaurants", mock.Anything, radiusIs(domain.Radius1500)).
		Return(response("new"), nil).Once()

	slowErr := make(chan error, 1)
	go func() {
		slowErr <- o.Search(context.Background())
	}()
	<-started

	require.NoError(t, o.UpdateRadius(domain.Radius1500))
	require.NoError(t, o.Search(context.Background()))
	close(release)

	assert.ErrorIs(t, <-slowErr, ErrStaleSearch)
	s := o.State()
	require.Len(t, s.Restaurants, 1)
	assert.Equal(t, "new", s.Restaurants[0].ID)
	assert.False(t, s.Loading)
}

func TestOrchestrator_WinnerSelection(t *testing.T) {
	api := &MockAPI{}
	o := New(api, WithEngineConfig(fastSpin), WithPicker(lastPicker))
	o.SetCoordinates(origin)
	api.On("Restaurants", mock.Anything, mock.Anything).Return(response("a", "b", "c"), nil)
	require.NoError(t, o.Search(context.Background()))

	o.StartWinnerSelection()
	assert.True(t, o.State().IsSelectingWinner)

	// повторный старт во время выбора игнорируется
	o.StartWinnerSelection()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, o.WaitSelection(ctx))

	s := o.State()
	assert.False(t, s.IsSelectingWinner)
	require.NotNil(t, s.Winner)
	assert.Equal(t, "c", s.Winner.ID)
	assert.Equal(t, "c", s.SelectedRestaurantID)
	assert.Equal(t, "c", s.HighlightedRestaurantID)
	assert.Len(t, s.Restaurants, 3)

	o.DismissWinner()
	s = o.State()
	assert.Nil(t, s.Winner)
	assert.Equal(t, "c", s.SelectedRestaurantID)
	assert.Len(t, s.Restaurants, 3)
}

func TestOrchestrator_StartWinnerSelectionEmptyIsNoop(t *testing.T) {
	o := New(&MockAPI{}, WithEngineConfig(fastSpin))
	o.StartWinnerSelection()

	assert.False(t, o.State().IsSelectingWinner)
	assert.NoError(t, o.WaitSelection(context.Background()))
}

func TestOrchestrator_DismissCancelsSelection(t *testing.T) {
	api := &MockAPI{}
	o := New(api, WithEngineConfig(slowSpin))
	o.SetCoordinates(origin)
	api.On("Restaurants", mock.Anything, mock.Anything).Return(response("a", "b"), nil)
	require.NoError(t, o.Search(context.Background()))

	o.StartWinnerSelection()
	time.Sleep(10 * time.Millisecond)
	o.DismissWinner()

	s := o.State()
	assert.False(t, s.IsSelectingWinner)
	assert.Nil(t, s.Winner)

	highlight := s.HighlightedRestaurantID
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, highlight, o.State().HighlightedRestaurantID, "ticks after cancel must be ignored")
}

func TestOrchestrator_NewSearchCancelsSelection(t *testing.T) {
	api := &MockAPI{}
	o := New(api, WithEngineConfig(slowSpin))
	o.SetCoordinates(origin)
	api.On("Restaurants", mock.Anything, mock.Anything).Return(response("a", "b"), nil)
	require.NoError(t, o.Search(context.Background()))

	o.StartWinnerSelection()
	require.True(t, o.State().IsSelectingWinner)

	require.NoError(t, o.Search(context.Background()))
	s := o.State()
	assert.False(t, s.IsSelectingWinner)
	assert.Nil(t, s.Winner)
}

func TestOrchestrator_SearchAndPickWinnerReusesResults(t *testing.T) {
	api := &MockAPI{}
	o := New(api, WithEngineConfig(fastSpin), WithPicker(lastPicker))
	o.SetCoordinates(origin)
	api.On("Restaurants", mock.Anything, radiusIs(domain.Radius3000)).Return(response("a", "b"), nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, o.SearchAndPickWinner(ctx))
	require.NoError(t, o.WaitSelection(ctx))
	require.NotNil(t, o.State().Winner)

	// те же координаты и фильтры: без нового запроса
	require.NoError(t, o.SearchAndPickWinner(ctx))
	require.NoError(t, o.WaitSelection(ctx))
	require.NotNil(t, o.State().Winner)
	api.AssertNumberOfCalls(t, "Restaurants", 1)

	// изменённые фильтры: новый поиск
	api.On("Restaurants", mock.Anything, radiusIs(domain.Radius6000)).Return(response("z"), nil).Once()
	require.NoError(t, o.UpdateRadius(domain.Radius6000))
	require.NoError(t, o.SearchAndPickWinner(ctx))
	require.NoError(t, o.WaitSelection(ctx))

	s := o.State()
	require.NotNil(t, s.Winner)
	assert.Equal(t, "z", s.Winner.ID)
	api.AssertNumberOfCalls(t, "Restaurants", 2)
}

func TestOrchestrator_SearchAndPickWinnerEmptyResult(t *testing.T) {
	api := &MockAPI{}
	o := New(api, WithEngineConfig(fastSpin))
	o.SetCoordinates(origin)
	api.On("Restaurants", mock.Anything, mock.Anything).Return(response(), nil)

	require.NoError(t, o.SearchAndPickWinner(context.Background()))

	s := o.State()
	assert.False(t, s.IsSelectingWinner)
	assert.Nil(t, s.Winner)
}

func TestOrchestrator_SearchAndPickWinnerWithoutLocation(t *testing.T) {
	api := &MockAPI{}
	o := New(api)

	assert.NoError(t, o.SearchAndPickWinner(context.Background()))
	api.AssertNotCalled(t, "Restaurants", mock.Anything, mock.Anything)
}

func TestOrchestrator_RequestLocation(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		o := New(&MockAPI{})
		assert.ErrorIs(t, o.RequestLocation(context.Background()), ErrLocationUnsupported)
		assert.Equal(t, LocationUnsupported, o.State().LocationState)
	})

	t.Run("denied", func(t *testing.T) {
		var seen []LocationState
		o := New(&MockAPI{},
			WithLocator(LocatorFunc(func(context.Context) (domain.Coordinates, error) {
				return domain.Coordinates{}, stderrors.New("user said no")
			})),
			WithObserver(func(s State) { seen = append(seen, s.LocationState) }),
		)

		assert.ErrorIs(t, o.RequestLocation(context.Background()), ErrPermissionDenied)
		assert.Equal(t, []LocationState{LocationRequesting, LocationDenied}, seen)
		assert.Nil(t, o.State().Coordinates)
	})

	t.Run("granted", func(t *testing.T) {
		o := New(&MockAPI{}, WithLocator(StaticLocator{Coordinates: origin}))

		require.NoError(t, o.RequestLocation(context.Background()))
		s := o.State()
		assert.Equal(t, LocationGranted, s.LocationState)
		require.NotNil(t, s.Coordinates)
		assert.Equal(t, origin, *s.Coordinates)
	})
}

func TestOrchestrator_GeocodeAddress(t *testing.T) {
	t.Run("success sets coordinates", func(t *testing.T) {
		api := &MockAPI{}
		o := New(api)
		api.On("Geocode", mock.Anything, "Times Square").
			Return(&dto.GeocodeResponse{Latitude: 40.758, Longitude: -73.9855}, nil)

		require.NoError(t, o.GeocodeAddress(context.Background(), "Times Square"))

		s := o.State()
		assert.Equal(t, LocationGranted, s.LocationState)
		assert.Equal(t, 40.758, s.Coordinates.Latitude)
	})

	t.Run("blank address is ignored", func(t *testing.T) {
		api := &MockAPI{}
		o := New(api)

		require.NoError(t, o.GeocodeAddress(context.Background(), "  "))
		api.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("failure is surfaced", func(t *testing.T) {
		api := &MockAPI{}
		o := New(api)
		api.On("Geocode", mock.Anything, "nowhere").
			Return(nil, &client.APIError{StatusCode: 404, Code: "ADDRESS_NOT_FOUND", Message: "Address not found"})

		require.Error(t, o.GeocodeAddress(context.Background(), "nowhere"))
		assert.Equal(t, "Address not found", o.State().ErrorMessage)
		assert.Nil(t, o.State().Coordinates)
	})
}

func TestOrchestrator_AutoSearch(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		api := &MockAPI{}
		o := New(api)

		o.MoveTo(context.Background(), origin)

		assert.Equal(t, origin, *o.State().Coordinates)
		api.AssertNotCalled(t, "Restaurants", mock.Anything, mock.Anything)
	})

	t.Run("searches once per new point", func(t *testing.T) {
		api := &MockAPI{}
		o := New(api, WithAutoSearch())
		api.On("Restaurants", mock.Anything, mock.Anything).Return(response("a", "b"), nil)

		o.MoveTo(context.Background(), origin)
		s := o.State()
		assert.Equal(t, []string{"a", "b"}, []string{s.Restaurants[0].ID, s.Restaurants[1].ID})
		assert.Equal(t, "a", s.SelectedRestaurantID)

		require.NoError(t, o.UpdateRadius(domain.Radius6000))
		o.MoveTo(context.Background(), origin)
		api.AssertNumberOfCalls(t, "Restaurants", 1)

		o.MoveTo(context.Background(), domain.Coordinates{Latitude: 40.758, Longitude: -73.9855})
		api.AssertNumberOfCalls(t, "Restaurants", 2)
		api.AssertCalled(t, "Restaurants", mock.Anything, radiusIs(domain.Radius6000))
	})

	t.Run("geocode moves and searches", func(t *testing.T) {
		api := &MockAPI{}
		o := New(api, WithAutoSearch())
		api.On("Geocode", mock.Anything, "Times Square").
			Return(&dto.GeocodeResponse{Latitude: 40.758, Longitude: -73.9855}, nil)
		api.On("Restaurants", mock.Anything, mock.Anything).
			Return(nil, &client.APIError{StatusCode: 502, Code: "UPSTREAM_ERROR", Message: "Google Places request timed out."})

		require.NoError(t, o.GeocodeAddress(context.Background(), "Times Square"))

		s := o.State()
		assert.Equal(t, LocationGranted, s.LocationState)
		assert.Equal(t, "Google Places request timed out.", s.ErrorMessage)
		assert.Empty(t, s.Restaurants)
	})

	t.Run("located point is searched", func(t *testing.T) {
		api := &MockAPI{}
		o := New(api, WithAutoSearch(), WithLocator(StaticLocator{Coordinates: origin}))
		api.On("Restaurants", mock.Anything, mock.Anything).Return(response("a"), nil).Once()

		require.NoError(t, o.RequestLocation(context.Background()))
		require.NoError(t, o.RequestLocation(context.Background()))

		assert.Len(t, o.State().Restaurants, 1)
		api.AssertNumberOfCalls(t, "Restaurants", 1)
	})
}

func TestOrchestrator_Close(t *testing.T) {
	api := &MockAPI{}
	o := New(api, WithEngineConfig(slowSpin))
	o.SetCoordinates(origin)
	api.On("Restaurants", mock.Anything, mock.Anything).Return(response("a"), nil).Once()
	require.NoError(t, o.Search(context.Background()))

	o.StartWinnerSelection()
	o.Close()
	o.Close()

	assert.False(t, o.State().IsSelectingWinner)
	assert.ErrorIs(t, o.Search(context.Background()), ErrClosed)
	o.StartWinnerSelection()
	assert.False(t, o.State().IsSelectingWinner)
}

func TestState_CloneIsIndependent(t *testing.T) {
	o := New(&MockAPI{})
	require.NoError(t, o.ToggleCuisine("thai"))

	snap := o.State()
	snap.Filters.Cuisines[0] = "mutated"

	assert.Equal(t, []domain.CuisineID{"thai"}, o.State().Filters.Cuisines)
}
