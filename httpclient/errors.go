package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies client errors.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	ErrCodeRequest
	ErrCodeClient
	ErrCodeServer
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeRequest:
		return "request"
	case ErrCodeClient:
		return "client"
	case ErrCodeServer:
		return "server"
	}
	return "unknown"
}

// Error is a classified client failure. StatusCode is zero when no response
// was received.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newTransportError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// ClassifyStatusCode returns nil for 2xx and an *Error otherwise.
func ClassifyStatusCode(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	code := ErrCodeServer
	if status >= 400 && status < 500 {
		code = ErrCodeClient
	}
	return &Error{StatusCode: status, Code: code, Message: fmt.Sprintf("HTTP %d", status), Body: body}
}

// IsTimeout reports whether err is a client timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection reports whether err is a connection failure.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
