package form

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Holder owns the current form record and the errors of the last
// validation. It is not safe for concurrent use; one holder serves one
// render cycle.
type Holder struct {
	record Record
	errors ValidationErrors
}

// NewHolder returns a holder with empty inputs and default choices.
func NewHolder() *Holder {
	return &Holder{errors: make(ValidationErrors)}
}

// NewHolderFrom returns a holder seeded with r. Categorical values outside
// their enumeration are rejected.
func NewHolderFrom(r Record) (*Holder, error) {
	if errs := r.Check(); !errs.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, errs.Err())
	}
	h := NewHolder()
	h.record = r
	return h, nil
}

// SetField overwrites one field. Continuous fields take the text as is;
// categorical fields take the decimal form of one of their options. No
// validation beyond that happens until Validate.
func (h *Holder) SetField(f Field, value string) error {
	switch {
	case f.IsContinuous():
		return h.SetText(f, value)
	case f.IsCategorical():
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrUnknownOption, f, value)
		}
		return h.SetChoice(f, v)
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
}

// SetText overwrites a continuous field.
func (h *Holder) SetText(f Field, value string) error {
	p := h.record.text(f)
	if p == nil {
		return fmt.Errorf("%w: %q is not a text field", ErrUnknownField, string(f))
	}
	*p = value
	return nil
}

// SetChoice overwrites a categorical field.
func (h *Holder) SetChoice(f Field, value int) error {
	p := h.record.choice(f)
	if p == nil {
		return fmt.Errorf("%w: %q is not a choice field", ErrUnknownField, string(f))
	}
	if !f.allows(value) {
		return fmt.Errorf("%w: %s=%d", ErrUnknownOption, f, value)
	}
	*p = value
	return nil
}

// Validate recomputes the error set from the current record and returns it.
// An empty result means the form may be submitted.
func (h *Holder) Validate() ValidationErrors {
	h.errors = h.record.Missing()
	return h.Errors()
}

// Reject merges errs into the current error set. It is used when a later
// stage, such as number parsing, refuses the record.
func (h *Holder) Reject(errs ValidationErrors) {
	if h.errors == nil {
		h.errors = make(ValidationErrors)
	}
	for f, msg := range errs {
		h.errors[f] = msg
	}
}

// Reset replaces the whole record and clears all errors.
func (h *Holder) Reset(preset Record) {
	h.record = preset
	h.errors = make(ValidationErrors)
}

// Record returns a copy of the current record.
func (h *Holder) Record() Record { return h.record }

// Errors returns a copy of the last validation result.
func (h *Holder) Errors() ValidationErrors {
	out := make(ValidationErrors, len(h.errors))
	for f, msg := range h.errors {
		out[f] = msg
	}
	return out
}

// FromValues builds a holder from submitted form values. Fields absent from
// values keep their defaults; keys that are not form fields are ignored.
func FromValues(values url.Values) (*Holder, error) {
	h := NewHolder()
	for _, f := range Order {
		if _, ok := values[string(f)]; !ok {
			continue
		}
		if err := h.SetField(f, values.Get(string(f))); err != nil {
			return nil, err
		}
	}
	return h, nil
}
