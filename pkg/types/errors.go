package types

import (
	"errors"
	"fmt"
)

// Collection operation errors.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Entity rule errors.
var (
	ErrInvalidField      = errors.New("invalid field")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnsupported       = errors.New("operation not supported for this account kind")
	ErrUnavailable       = errors.New("book is not available")
	ErrNotBorrowed       = errors.New("book is not borrowed by this member")
	ErrHasLoans          = errors.New("member still has borrowed books")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrInvalidOperator   = errors.New("invalid operator")
)

// Store errors.
var (
	ErrHeaderMismatch = errors.New("csv header does not match")
)

// FieldError reports a field that failed validation. It matches
// ErrInvalidField under errors.Is.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidField.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

func fieldErr(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
