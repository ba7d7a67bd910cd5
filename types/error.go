package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unified error code across the router.
type ErrorCode string

// Dispatch error codes
const (
	ErrGroupNotFound          ErrorCode = "GROUP_NOT_FOUND"
	ErrNoAvailableProviders   ErrorCode = "NO_AVAILABLE_PROVIDERS"
	ErrNoProviderForModel     ErrorCode = "NO_PROVIDER_FOR_MODEL"
	ErrDispatcherNotFound     ErrorCode = "DISPATCHER_NOT_FOUND"
	ErrCapabilityNotSupported ErrorCode = "CAPABILITY_NOT_SUPPORTED"
	ErrAllCandidatesFailed    ErrorCode = "ALL_CANDIDATES_FAILED"
)

// Registry / setup error codes
const (
	ErrDuplicateID    ErrorCode = "DUPLICATE_ID"
	ErrInvalidConfig  ErrorCode = "INVALID_CONFIG"
	ErrPluginNotFound ErrorCode = "PLUGIN_NOT_FOUND"
)

// 默认 HTTP 状态映射，供上层服务直接返回
var defaultHTTPStatus = map[ErrorCode]int{
	ErrGroupNotFound:          http.StatusNotFound,
	ErrNoAvailableProviders:   http.StatusServiceUnavailable,
	ErrNoProviderForModel:     http.StatusNotFound,
	ErrDispatcherNotFound:     http.StatusInternalServerError,
	ErrCapabilityNotSupported: http.StatusBadRequest,
	ErrAllCandidatesFailed:    http.StatusBadGateway,
	ErrDuplicateID:            http.StatusConflict,
	ErrInvalidConfig:          http.StatusBadRequest,
	ErrPluginNotFound:         http.StatusInternalServerError,
}

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
// HTTPStatus is pre-filled from the code when a default mapping exists.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: defaultHTTPStatus[code]}
}

// Errorf is NewError with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the provider id.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// coded is implemented by error types outside this package that still
// belong to the code space (e.g. the aggregated candidate failure).
type coded interface {
	ErrorCode() ErrorCode
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error chain. The chain is
// walked depth-first and the first coded error wins, so an aggregate that
// reports its own code is not overridden by the errors it wraps.
func GetErrorCode(err error) ErrorCode {
	switch e := err.(type) {
	case nil:
		return ""
	case *Error:
		return e.Code
	case coded:
		return e.ErrorCode()
	case interface{ Unwrap() error }:
		return GetErrorCode(e.Unwrap())
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if code := GetErrorCode(inner); code != "" {
				return code
			}
		}
	}
	return ""
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}
