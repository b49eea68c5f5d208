package service

import (
	"errors"
	"fmt"

	"github.com/bukucerdas/bookstore/internal/upload"
	"gorm.io/gorm"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a client facing message while still matching one of the
// sentinels above through errors.Is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// notFound maps gorm.ErrRecordNotFound to ErrNotFound and passes other
// errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(ErrNotFound, "%s not found", what)
	}
	return err
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, upload.ErrEmptyFile):
		return fail(ErrValidation, "uploaded file is empty")
	case errors.Is(err, upload.ErrTooLarge):
		return fail(ErrValidation, "uploaded file is too large")
	case errors.Is(err, upload.ErrUnknownFolder):
		return fail(ErrValidation, "invalid upload target")
	}
	return err
}
