package errors

import "net/http"

const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeInvalidJSON            = "INVALID_JSON"
	CodeServerMisconfiguration = "SERVER_MISCONFIGURATION"
	CodeUpstreamError          = "UPSTREAM_ERROR"
	CodeRateLimited            = "RATE_LIMITED"
	CodeMethodNotAllowed       = "METHOD_NOT_ALLOWED"
	CodeAddressNotFound        = "ADDRESS_NOT_FOUND"
	CodeGeocodeFailed          = "GEOCODE_FAILED"
	CodeAutocompleteFailed     = "AUTOCOMPLETE_FAILED"
	CodeInternalServerError    = "INTERNAL_SERVER_ERROR"
	CodeStatisticsUnavailable  = "STATISTICS_UNAVAILABLE"
)

var (
	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidRestaurantsRequest = New(
		CodeInvalidRequest,
		"Invalid restaurant search payload.",
		http.StatusBadRequest,
	)

	ErrInvalidJSON = New(
		CodeInvalidJSON,
		"Request body must be valid JSON.",
		http.StatusBadRequest,
	)

	ErrServerMisconfiguration = New(
		CodeServerMisconfiguration,
		"Missing Places API key. Set GOOGLE_PLACES_SERVER_KEY, MAPS_API, or MAPS_API_KEY.",
		http.StatusInternalServerError,
	)

	ErrRateLimited = New(
		CodeRateLimited,
		"Too many requests. Please try again shortly.",
		http.StatusTooManyRequests,
	)

	ErrMethodNotAllowed = New(
		CodeMethodNotAllowed,
		"Use POST for this endpoint.",
		http.StatusMethodNotAllowed,
	)

	ErrAddressRequired = New(
		CodeInvalidRequest,
		"Address is required",
		http.StatusBadRequest,
	)

	ErrInvalidAutocompleteRequest = New(
		CodeInvalidRequest,
		"Invalid autocomplete request.",
		http.StatusBadRequest,
	)

	ErrAddressNotFound = New(
		CodeAddressNotFound,
		"Address not found",
		http.StatusNotFound,
	)

	ErrStatisticsUnavailable = New(
		CodeStatisticsUnavailable,
		"Statistics backend is not configured",
		http.StatusServiceUnavailable,
	)

	ErrInternalServer = New(
		CodeInternalServerError,
		"Unexpected server error.",
		http.StatusInternalServerError,
	)
)
