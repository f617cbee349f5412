package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// detailError carries a caller-facing message while still matching its
// sentinel under errors.Is.
type detailError struct {
	kind error
	msg  string
}

func (e *detailError) Error() string { return e.msg }
func (e *detailError) Unwrap() error { return e.kind }

func validationf(format string, args ...any) error {
	return &detailError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &detailError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}
