package errors

import (
	stderrors "errors"
)

// DetailResponse is the JSON body for every failed request: {"detail": "..."}.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ToResponse converts an AppError to its wire form.
func (e *AppError) ToResponse() DetailResponse {
	return DetailResponse{Detail: e.Message}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is and As re-export the standard library helpers so callers importing
// this package under the name errors keep access to them.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
