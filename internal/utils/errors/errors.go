package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrBadRequest       = errors.New("bad request")
	ErrInternal         = errors.New("internal error")
	ErrTimeout          = errors.New("timeout")
	ErrServiceUnavail   = errors.New("service unavailable")
	ErrBadGateway       = errors.New("bad gateway")
	ErrUpstreamRejected = errors.New("upstream rejected request")
)

// AppError represents an application error with HTTP status and error code.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	// Kind is the generation failure kind, when the error came from one.
	Kind string `json:"kind,omitempty"`
	// UpstreamStatus is the status code returned by the upstream, if any.
	UpstreamStatus int  `json:"status_code,omitempty"`
	Retryable      bool `json:"retryable"`

	StatusCode int   `json:"-"`
	Err        error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse represents the JSON error response.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string         `json:"code"`
	Kind       string         `json:"kind,omitempty"`
	Message    string         `json:"message"`
	StatusCode int            `json:"status_code,omitempty"`
	Retryable  bool           `json:"retryable"`
	Details    map[string]any `json:"details,omitempty"`
}

// NewAppError creates a new application error.
func NewAppError(code string, message string, statusCode int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Common error constructors.

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// BadRequest creates a bad request error.
func BadRequest(message string) *AppError {
	return &AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        ErrBadRequest,
	}
}

// ValidationError creates a validation error for malformed request bodies.
func ValidationError(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        ErrBadRequest,
	}
}

// Internal creates an internal error.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// Timeout creates a timeout error.
func Timeout(message string) *AppError {
	if message == "" {
		message = "request timeout"
	}
	return &AppError{
		Code:       "TIMEOUT",
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Retryable:  true,
		Err:        ErrTimeout,
	}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(message string) *AppError {
	if message == "" {
		message = "service temporarily unavailable"
	}
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Retryable:  true,
		Err:        ErrServiceUnavail,
	}
}

// BadGateway creates an error for an upstream that answered unusably.
func BadGateway(message string) *AppError {
	if message == "" {
		message = "upstream error"
	}
	return &AppError{
		Code:       "BAD_GATEWAY",
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        ErrBadGateway,
	}
}

// UpstreamRejected creates an error for an upstream that explicitly refused
// the request.
func UpstreamRejected(message string) *AppError {
	return &AppError{
		Code:       "UPSTREAM_REJECTED",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Err:        ErrUpstreamRejected,
	}
}

// ToResponse converts an AppError to ErrorResponse.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:       e.Code,
			Kind:       e.Kind,
			Message:    e.Message,
			StatusCode: e.UpstreamStatus,
			Retryable:  e.Retryable,
			Details:    e.Details,
		},
	}
}

// GetStatusCode returns the appropriate HTTP status code for an error.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadGateway):
		return http.StatusBadGateway
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// WithKind tags the error with a generation failure kind.
func (e *AppError) WithKind(kind string, retryable bool) *AppError {
	e.Kind = kind
	e.Retryable = retryable
	return e
}

// WithUpstreamStatus records the status code returned by the upstream.
func (e *AppError) WithUpstreamStatus(status int) *AppError {
	e.UpstreamStatus = status
	return e
}

// Is reports whether target matches this error.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Err, target)
}

// --- Error Checking Helpers ---

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRequest checks if the error is a bad request error.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsRetryable reports whether the error is marked retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}
