package dto

// MaxAutocompleteInput - максимальная длина строки автодополнения
const MaxAutocompleteInput = 200

// GeocodeRequest - запрос на геокодирование адреса
type GeocodeRequest struct {
	Address string `json:"address" validate:"required"`
}

// AutocompleteRequest - запрос подсказок адреса
type AutocompleteRequest struct {
	Input string `json:"input" validate:"max=200"`
}
