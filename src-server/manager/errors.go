package manager

import (
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrReadOnly      = errors.New("imported events are read-only")
	ErrFieldRequired = errors.New("required field is missing")
	ErrInvalidEvent  = errors.New("invalid event")
	ErrInvalidRange  = errors.New("invalid date range")
)

// FieldError lists every required field that was left blank.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return "please fill out all required fields: " + strings.Join(e.Fields, ", ")
}

func (e *FieldError) Unwrap() error {
	return ErrFieldRequired
}
