package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of the HTTP status it maps to.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindNotFound            Kind = "not_found"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindRenderFailure       Kind = "render_failure"
	KindUnauthorized        Kind = "unauthorized"
	KindRateLimited         Kind = "rate_limited"
	KindPrintFailure        Kind = "print_failure"
	KindInternal            Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches on Kind so callers can use errors.Is against the sentinels below.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Common errors
var (
	ErrNotFound            = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrInvalidInput        = &AppError{Code: http.StatusBadRequest, Kind: KindInvalidInput, Message: "Bad request"}
	ErrUpstreamUnavailable = &AppError{Code: http.StatusNotFound, Kind: KindUpstreamUnavailable, Message: "Upstream unavailable"}
	ErrRenderFailure       = &AppError{Code: http.StatusInternalServerError, Kind: KindRenderFailure, Message: "Document could not be generated"}
	ErrUnauthorized        = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrRateLimited         = &AppError{Code: http.StatusTooManyRequests, Kind: KindRateLimited, Message: "Rate limit exceeded"}
	ErrPrintFailure        = &AppError{Code: http.StatusBadGateway, Kind: KindPrintFailure, Message: "Printing failed"}
	ErrInternalServer      = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrInvalidCredentials  = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Falsches Admin-Passwort."}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidInput,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewInvalidInputError creates a bad request error with a custom message
func NewInvalidInputError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindInvalidInput, message)
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, message)
}

// NewUpstreamUnavailableError is used when the record store could not be read.
// Callers treat it like a load failure, so it maps to 404.
func NewUpstreamUnavailableError(message string) *AppError {
	return NewAppError(http.StatusNotFound, KindUpstreamUnavailable, message)
}

// NewRenderFailureError creates a render failure with a caller-safe message
func NewRenderFailureError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, KindRenderFailure, message)
}

// NewPrintFailureError creates a print failure with a caller-safe message
func NewPrintFailureError(message string) *AppError {
	return NewAppError(http.StatusBadGateway, KindPrintFailure, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible. Unknown errors become a
// generic internal error so their text never reaches the client.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer
}
