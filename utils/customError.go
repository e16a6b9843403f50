package utils

import (
	"errors"
	"net/http"
)

// CustomError carries an HTTP status and optional validation details.
type CustomError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *CustomError) Error() string {
	return e.Message
}

func NewCustomError(statusCode int, message string, errs ...string) *CustomError {
	return &CustomError{StatusCode: statusCode, Message: message, Errors: errs}
}

func BadRequest(message string, errs ...string) *CustomError {
	return NewCustomError(http.StatusBadRequest, message, errs...)
}

func NotFound(message string) *CustomError {
	return NewCustomError(http.StatusNotFound, message)
}

func Conflict(message string) *CustomError {
	return NewCustomError(http.StatusConflict, message)
}

func Forbidden(message string) *CustomError {
	return NewCustomError(http.StatusForbidden, message)
}

func Unauthorized(message string) *CustomError {
	return NewCustomError(http.StatusUnauthorized, message)
}

// Internal wraps an unexpected failure. The cause is not exposed to clients.
func Internal(message string) *CustomError {
	return NewCustomError(http.StatusInternalServerError, message)
}

// StatusOf returns the status code carried by err, or 500.
func StatusOf(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return http.StatusInternalServerError
}
