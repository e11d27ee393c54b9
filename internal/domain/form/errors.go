package form

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel error kinds for this package.
var (
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownOption = errors.New("value not allowed for field")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrValidation    = errors.New("validation failed")
)

// Messages attached to fields in ValidationErrors.
const (
	MsgRequired      = "This field is required"
	MsgInvalidNumber = "Must be a valid number"
)

// ValidationErrors maps a field to the message shown next to it.
type ValidationErrors map[Field]string

// Valid reports whether no field carries an error.
func (v ValidationErrors) Valid() bool { return len(v) == 0 }

// Fields returns the failing fields sorted by name.
func (v ValidationErrors) Fields() []Field {
	out := make([]Field, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Err returns nil when v is empty and a *ValidationError otherwise.
func (v ValidationErrors) Err() error {
	if v.Valid() {
		return nil
	}
	return &ValidationError{Fields: v}
}

// ValidationError is returned when a submission is rejected locally.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields ValidationErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields.Fields() {
		parts = append(parts, string(f)+": "+e.Fields[f])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
