package common

import (
	"errors"
	"net/http"
)

// Stable error codes carried in API error payloads. Handlers map domain
// sentinels onto these; clients switch on the code, not the message.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL"
)

// AppError pairs a stable code and HTTP status with an underlying cause.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError with an explicit code and status.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NotFound builds the canonical missing-resource error.
func NotFound(message string, err error) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, err)
}

// InvalidInput builds the canonical bad-request error.
func InvalidInput(message string, err error) *AppError {
	return NewAppError(CodeInvalidInput, message, http.StatusBadRequest, err)
}

// Unavailable marks a product that cannot currently be purchased.
func Unavailable(message string, err error) *AppError {
	return NewAppError(CodeProductUnavailable, message, http.StatusConflict, err)
}

// Internal wraps an unexpected failure without leaking its message to clients.
func Internal(err error) *AppError {
	return NewAppError(CodeInternal, "internal server error", http.StatusInternalServerError, err)
}

// AsAppError unwraps err to an AppError when one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
