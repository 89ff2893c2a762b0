package core

import (
	"strings"

	"github.com/pkg/errors"
)

// FieldError reports an invalid field by its JSON name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is invalid input that validation tags cannot catch on their own:
// a taken email, a forbidden role, a class overlapping another one, a malformed query param.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Error)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FieldMap returns the field errors keyed by field name, or nil without field errors.
func (e *ValidationError) FieldMap() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Error
	}
	return m
}

// shutdownError means the app cannot go on serving, e.g. its store connection is gone.
type shutdownError struct {
	err error
}

// NewShutdownError marks err as fatal to the running app.
func NewShutdownError(err error) error {
	return &shutdownError{err: err}
}

func (s *shutdownError) Error() string { return "shutdown: " + s.err.Error() }
func (s *shutdownError) Unwrap() error { return s.err }

// IsShutdown reports whether err, or any error it wraps, calls for a shutdown.
func IsShutdown(err error) bool {
	var s *shutdownError
	return errors.As(err, &s)
}
