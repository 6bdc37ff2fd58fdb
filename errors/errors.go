package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is the human-readable text sent to clients as the detail.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for logs.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Upload errors ---

// InvalidInput creates a 400 for a malformed request.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("Invalid input: %s", reason), http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// MissingField creates a 400 for a required form field that was not sent.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("Missing required field: %s", field), http.StatusBadRequest).
		WithDetail("field", field)
}

// UnsupportedMediaType creates a 415 for an upload of the wrong type.
func UnsupportedMediaType(got string, want ...string) *AppError {
	return New(ErrCodeUnsupportedMediaType,
		fmt.Sprintf("Unsupported media type %q, expected %v", got, want),
		http.StatusUnsupportedMediaType).WithDetail("content_type", got)
}

// PayloadTooLarge creates a 413 for an upload above limit bytes.
func PayloadTooLarge(limit int64) *AppError {
	return New(ErrCodePayloadTooLarge,
		fmt.Sprintf("Upload exceeds the maximum size of %d bytes", limit),
		http.StatusRequestEntityTooLarge).WithDetail("limit", limit)
}

// Validation creates a 400 for a value that failed validation.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// --- Upstream errors ---

// ExternalServiceError creates a 502 carrying the upstream failure text.
func ExternalServiceError(service string, cause error) *AppError {
	msg := fmt.Sprintf("%s request failed", service)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &AppError{
		Code: ErrCodeExternalService, Message: msg,
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// Timeout creates a 504 for an operation that ran past its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// ServiceUnavailable creates a 503 for a dependency that cannot serve now.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// RateLimited creates a 429.
func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
}

// --- Internal errors ---

// Internal creates a 500 whose message is the cause text.
func Internal(cause error) *AppError {
	msg := "An unexpected error occurred."
	if cause != nil {
		msg = cause.Error()
	}
	return &AppError{
		Code: ErrCodeInternal, Message: msg,
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// Wrap converts any error to an AppError. AppErrors anywhere in the chain
// are returned as-is, deadline overruns become Timeout and everything else
// becomes Internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return Timeout("request").WithCause(err)
	}
	return Internal(err)
}
