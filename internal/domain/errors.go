package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Match with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
	ErrTransport  = errors.New("transport failure")
)

// Error wraps a category sentinel with the failing operation and a detail.
type Error struct {
	Op     string
	Err    error
	Detail string
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Detail != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Detail, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error for op with the given category and detail.
func NewError(op string, category error, detail string) *Error {
	return &Error{Op: op, Err: category, Detail: detail}
}

// NotFoundf formats a not-found error.
func NotFoundf(op, format string, args ...any) error {
	return NewError(op, ErrNotFound, fmt.Sprintf(format, args...))
}

// Validationf formats a validation error.
func Validationf(op, format string, args ...any) error {
	return NewError(op, ErrValidation, fmt.Sprintf(format, args...))
}

// StorageError wraps a driver error as a storage failure.
func StorageError(op string, err error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %v", ErrStorage, err)}
}

// TransportError wraps a network or protocol error as a transport failure.
func TransportError(op string, err error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %v", ErrTransport, err)}
}
