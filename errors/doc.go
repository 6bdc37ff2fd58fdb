// Package errors provides the application error type shared by every layer.
//
// An AppError carries a machine-readable code, an HTTP status and the
// message that is returned to clients. On the wire every failure is the
// single-field body {"detail": message}.
package errors
