package domain

import "slices"

// RadiusMeters - допустимый радиус поиска
type RadiusMeters int

const (
	Radius1500 RadiusMeters = 1500
	Radius3000 RadiusMeters = 3000
	Radius4500 RadiusMeters = 4500
	Radius6000 RadiusMeters = 6000
)

// RadiusOptions - все допустимые значения радиуса в порядке возрастания
var RadiusOptions = []RadiusMeters{Radius1500, Radius3000, Radius4500, Radius6000}

func (r RadiusMeters) Valid() bool {
	return slices.Contains(RadiusOptions, r)
}

// SortBy - порядок сортировки результатов
type SortBy string

const (
	SortByDistance SortBy = "distance"
	SortByRating   SortBy = "rating"
)

var SortOptions = []SortBy{SortByDistance, SortByRating}

func (s SortBy) Valid() bool {
	return slices.Contains(SortOptions, s)
}

// CuisineID - идентификатор кухни из закрытого каталога
type CuisineID string

// Cuisine - элемент каталога кухонь; Keyword уходит в upstream как часть параметра keyword
type Cuisine struct {
	ID      CuisineID `json:"id"`
	Label   string    `json:"label"`
	Keyword string    `json:"keyword"`
}

// MaxCuisines - сколько кухонь можно выбрать одновременно
const MaxCuisines = 6

var Cuisines = []Cuisine{
	{ID: "american", Label: "American", Keyword: "american"},
	{ID: "chinese", Label: "Chinese", Keyword: "chinese"},
	{ID: "french", Label: "French", Keyword: "french"},
	{ID: "indian", Label: "Indian", Keyword: "indian"},
	{ID: "italian", Label: "Italian", Keyword: "italian"},
	{ID: "japanese", Label: "Japanese", Keyword: "japanese"},
	{ID: "korean", Label: "Korean", Keyword: "korean"},
	{ID: "mediterranean", Label: "Mediterranean", Keyword: "mediterranean"},
	{ID: "mexican", Label: "Mexican", Keyword: "mexican"},
	{ID: "thai", Label: "Thai", Keyword: "thai"},
	{ID: "vietnamese", Label: "Vietnamese", Keyword: "vietnamese"},
}

var cuisineKeywords = func() map[CuisineID]string {
	m := make(map[CuisineID]string, len(Cuisines))
	for _, c := range Cuisines {
		m[c.ID] = c.Keyword
	}
	return m
}()

// IsKnownCuisine проверяет принадлежность каталогу (регистр должен быть уже нормализован)
func IsKnownCuisine(id CuisineID) bool {
	_, ok := cuisineKeywords[id]
	return ok
}

// CuisineKeyword возвращает upstream-ключевое слово для кухни
func CuisineKeyword(id CuisineID) (string, bool) {
	kw, ok := cuisineKeywords[id]
	return kw, ok
}

// SearchFilters - фильтры поиска на стороне клиента
type SearchFilters struct {
	RadiusMeters RadiusMeters `json:"radiusMeters"`
	Cuisines     []CuisineID  `json:"cuisines"`
	OpenNow      bool         `json:"openNow"`
	SortBy       SortBy       `json:"sortBy"`
}

func DefaultFilters() SearchFilters {
	return SearchFilters{
		RadiusMeters: Radius3000,
		Cuisines:     []CuisineID{},
		OpenNow:      true,
		SortBy:       SortByDistance,
	}
}

// Clone возвращает копию фильтров с независимым срезом кухонь
func (f SearchFilters) Clone() SearchFilters {
	f.Cuisines = slices.Clone(f.Cuisines)
	if f.Cuisines == nil {
		f.Cuisines = []CuisineID{}
	}
	return f
}
