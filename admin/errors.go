package admin

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotPreviewing is returned by a confirm outside the preview phase.
	ErrNotPreviewing = errors.New("form is not being previewed")
	// ErrBusy is returned while a save of the same form is in flight.
	ErrBusy = errors.New("a save is already in progress")
	// ErrNotLoaded is returned by list operations before Load succeeded.
	ErrNotLoaded = errors.New("content lists not loaded")
)

// ValidationError lists the invalid form fields with a message each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
