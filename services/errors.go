package services

import "github.com/pkg/errors"

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// Error carries a caller-facing message for one of the error kinds.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) error   { return newError(ErrNotFound, message) }
func Forbidden(message string) error  { return newError(ErrForbidden, message) }
func Conflict(message string) error   { return newError(ErrConflict, message) }
func Validation(message string) error { return newError(ErrValidation, message) }
