package domain

// Coordinates - точка на карте в градусах
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeocodeResult - результат прямого геокодирования адреса
type GeocodeResult struct {
	Latitude         float64 `json:"latitude" db:"latitude"`
	Longitude        float64 `json:"longitude" db:"longitude"`
	FormattedAddress string  `json:"formattedAddress" db:"formatted_address"`
}

func (g GeocodeResult) Coordinates() Coordinates {
	return Coordinates{Latitude: g.Latitude, Longitude: g.Longitude}
}

// Prediction - подсказка автодополнения адреса
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}
