// Package errors defines service errors that carry an HTTP status so
// middleware and handlers can translate them uniformly.
package errors

import (
	"fmt"
	"net/http"
)

// ServiceError is an error with a stable code and HTTP status mapping.
type ServiceError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// InvalidParams reports a request with missing or malformed parameters.
func InvalidParams(message string) *ServiceError {
	return &ServiceError{
		Code:       "invalid_params",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound reports a missing resource.
func NotFound(message string) *ServiceError {
	return &ServiceError{
		Code:       "not_found",
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// RateLimitExceeded reports that a client exceeded its request budget.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return &ServiceError{
		Code:       "rate_limit_exceeded",
		Message:    fmt.Sprintf("rate limit of %d requests per %s exceeded", limit, window),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Internal reports an unexpected server-side failure.
func Internal(message string) *ServiceError {
	return &ServiceError{
		Code:       "internal",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}
