package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds. Every error returned by a service either wraps one of these
// or comes straight from the database.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrState         = errors.New("state precondition failed")
	ErrInvariant     = errors.New("internal invariant violated")
	ErrNotFound      = errors.New("not found")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func configError(format string, args ...any) error {
	return &kindError{kind: ErrConfiguration, msg: fmt.Sprintf(format, args...)}
}

func stateError(format string, args ...any) error {
	return &kindError{kind: ErrState, msg: fmt.Sprintf(format, args...)}
}

func invariantError(format string, args ...any) error {
	return &kindError{kind: ErrInvariant, msg: fmt.Sprintf(format, args...)}
}

func notFound(entity string) error {
	return &kindError{kind: ErrNotFound, msg: entity + " not found."}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
