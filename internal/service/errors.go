package service

import (
	"errors"

	"github.com/Skotchmaster/product_api/internal/validation"
)

var (
	ErrValidation         = validation.ErrValidation
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ConflictError reports a uniqueness clash. It matches ErrConflict and,
// through the wrapped violation, ErrValidation.
type ConflictError struct {
	Violation *validation.Error
}

func newConflict(field string) *ConflictError {
	var vs validation.Violations
	vs.Unique(field, true)
	return &ConflictError{Violation: &validation.Error{Violations: vs}}
}

func (e *ConflictError) Error() string        { return e.Violation.Error() }
func (e *ConflictError) Unwrap() error        { return e.Violation }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
