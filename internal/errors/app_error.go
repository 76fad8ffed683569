package errors

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	// Body holds the parsed JSON body of a failed API response, when one
	// could be decoded. Callers use it to surface server-side field errors.
	Body map[string]any
	Err  error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

func (e *AppError) WithBody(body map[string]any) *AppError {
	e.Body = body

	return e
}

const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeAPIError     = "API_ERROR"
	ErrCodeNetwork      = "NETWORK_ERROR"
	ErrCodeStorage      = "STORAGE_ERROR"
	ErrCodeGuard        = "GUARD_VIOLATION"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// APIError represents a non-2xx response from the commerce API.
func APIError(message string, statusCode int) *AppError {
	return NewAppError(ErrCodeAPIError, message, statusCode)
}

// NetworkError represents a transport-level failure: the request never
// produced an HTTP status at all.
func NetworkError(message string) *AppError {
	return NewAppError(ErrCodeNetwork, message, 0)
}

func StorageError(message string) *AppError {
	return NewAppError(ErrCodeStorage, message, http.StatusInternalServerError)
}

// GuardError marks a checkout precondition failure caught before any request
// is made.
func GuardError(message string) *AppError {
	return NewAppError(ErrCodeGuard, message, http.StatusPreconditionFailed)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}
