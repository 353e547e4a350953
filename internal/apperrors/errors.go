package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict with current state")

// ErrStorage indicates a failure of the underlying database.
var ErrStorage = errors.New("storage error")

// ErrInternal indicates an unexpected server-side failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code, a message and the underlying cause.
// It unwraps to both its kind sentinel (ErrStorage, ErrNotFound, ...) and the cause,
// so callers can test either with errors.Is / errors.As.
type AppError struct {
	Code    int
	Message string
	Err     error
	kind    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the kind sentinel and the wrapped cause.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAppError creates an AppError. The kind is derived from the code:
// 400 validation, 404 not found, 409 conflict, anything else storage.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err, kind: kindForCode(code)}
}

// NewNotFoundError creates a 404 AppError.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, kind: ErrNotFound}
}

// NewValidationError creates a 400 AppError with a formatted message.
func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...), kind: ErrValidation}
}

// NewConflictError creates a 409 AppError.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, kind: ErrConflict}
}

// NewDuplicateError creates a 409 AppError for unique-constraint violations.
func NewDuplicateError(message string, err error) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: err, kind: ErrDuplicate}
}

// NewStorageError wraps a database failure.
func NewStorageError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err, kind: ErrStorage}
}

func kindForCode(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrStorage
	}
}
