package errs

import (
	"errors"
)

// Kinds. Every domain error unwraps to exactly one of them.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation")
	ErrUnavailable = errors.New("unavailable")
)

// Error is a domain error whose text is safe to return to clients.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Validation reports a rejected input with a client-facing message.
func Validation(msg string) *Error {
	return New(ErrValidation, msg)
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

var (
	ErrBookNotFound = New(ErrNotFound, "Book not found")
	ErrUserNotFound = New(ErrNotFound, "User not found")
	ErrLoanNotFound = New(ErrNotFound, "Loan not found")
	ErrNoVolumes    = New(ErrNotFound, "No books found in catalog")

	ErrEmailExists      = New(ErrConflict, "User email already exists")
	ErrBookNotAvailable = New(ErrConflict, "Book is not available")
	ErrBookReferenced   = New(ErrConflict, "Book has loans")
	ErrUserReferenced   = New(ErrConflict, "User has loans")

	ErrCatalogUnavailable = New(ErrUnavailable, "Catalog is unavailable")
)
