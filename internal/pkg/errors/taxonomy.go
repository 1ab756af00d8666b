package errors

import (
	stderrors "errors"
	"net/http"
)

// ValidationError - клиентские данные не прошли проверку; Issues содержит все найденные проблемы
type ValidationError struct {
	Issues []string
}

func NewValidationError(issues []string) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	return "invalid request payload"
}

// UpstreamError - сбой стороннего API (Google Places / Geocoding)
type UpstreamError struct {
	Code           string
	Message        string
	StatusCode     int
	UpstreamStatus string
	Err            error
}

// UpstreamOption настраивает UpstreamError
type UpstreamOption func(*UpstreamError)

func WithStatusCode(code int) UpstreamOption {
	return func(e *UpstreamError) {
		e.StatusCode = code
	}
}

func WithUpstreamStatus(status string) UpstreamOption {
	return func(e *UpstreamError) {
		e.UpstreamStatus = status
	}
}

func WithCode(code string) UpstreamOption {
	return func(e *UpstreamError) {
		e.Code = code
	}
}

func WithCause(err error) UpstreamOption {
	return func(e *UpstreamError) {
		e.Err = err
	}
}

func NewUpstreamError(message string, opts ...UpstreamOption) *UpstreamError {
	e := &UpstreamError{
		Code:       CodeUpstreamError,
		Message:    message,
		StatusCode: http.StatusBadGateway,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *UpstreamError) Error() string {
	if e.UpstreamStatus != "" {
		return e.Message + " (" + e.UpstreamStatus + ")"
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ToAppError переводит любую ошибку слоя use case в AppError для ответа клиенту.
// Внутренности upstream-ошибок наружу не попадают, только текст сообщения.
func ToAppError(err error, validationFallback *AppError) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var validationErr *ValidationError
	if stderrors.As(err, &validationErr) {
		if validationFallback == nil {
			validationFallback = ErrInvalidRequest
		}
		return validationFallback.WithDetails(validationErr.Issues)
	}

	var upstreamErr *UpstreamError
	if stderrors.As(err, &upstreamErr) {
		return New(upstreamErr.Code, upstreamErr.Message, upstreamErr.StatusCode)
	}

	return ErrInternalServer
}
