package validation

import (
	"errors"
	"fmt"
)

// ErrMisconfigured marks programmer errors, as opposed to validation failures.
var ErrMisconfigured = errors.New("validation: misconfigured")

var (
	// ErrFormRequired is returned when Validate runs without a bound form.
	ErrFormRequired = fmt.Errorf("%w: form is required", ErrMisconfigured)
	// ErrSchemaRequired is returned when Validate runs without a bound schema.
	ErrSchemaRequired = fmt.Errorf("%w: schema is required", ErrMisconfigured)
)

// FieldResult is the outcome for one evaluated input.
type FieldResult struct {
	Name   string   `json:"name"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Result aggregates the outcome of a validation pass. Fields appear in input
// order; inputs without a schema entry are not listed.
type Result struct {
	Valid  bool          `json:"valid"`
	Fields []FieldResult `json:"fields,omitempty"`
}

// Field returns the first result recorded for name.
func (r Result) Field(name string) (FieldResult, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldResult{}, false
}

// Errors returns the messages of invalid fields keyed by field name, or nil
// when every field passed.
func (r Result) Errors() map[string][]string {
	var out map[string][]string
	for _, field := range r.Fields {
		if field.Valid {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[field.Name] = append(out[field.Name], field.Errors...)
	}
	return out
}
