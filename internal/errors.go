package internal

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrProfileNotFound = errors.New("user profile not found")
	ErrProfileExists   = errors.New("user profile already exists")
	// ErrReadOnly is returned by data sources that discard writes.
	ErrReadOnly = errors.New("data source is read-only")
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// WrapAppError attaches cause so errors.Is still sees it.
func WrapAppError(code int, msg string, cause error) *AppError {
	return &AppError{Code: code, Message: msg, cause: cause}
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.cause }

// StorageError converts a persistence failure into the generic domain error
// surfaced to callers.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    500,
		Message: fmt.Sprintf("could not %s, please try again", op),
		cause:   err,
	}
}
