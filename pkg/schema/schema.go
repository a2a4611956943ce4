package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FieldSchema configures the rules applied to a single named input. Min and
// Max are optional numeric bounds, DP optionally constrains the number of
// decimal places (zero leaves it unset) and DefaultValue is injected on a
// successful submission when the input is empty.
type FieldSchema struct {
	Rules        []string
	Min          *float64
	Max          *float64
	DP           int
	DefaultValue *string
}

// HasDefault reports whether a default value is configured for the field.
func (f FieldSchema) HasDefault() bool {
	return f.DefaultValue != nil
}

// Default returns the configured default value, or an empty string.
func (f FieldSchema) Default() string {
	if f.DefaultValue == nil {
		return ""
	}
	return *f.DefaultValue
}

func (f FieldSchema) clone() FieldSchema {
	out := FieldSchema{DP: f.DP}
	if len(f.Rules) > 0 {
		out.Rules = append([]string(nil), f.Rules...)
	}
	if f.Min != nil {
		value := *f.Min
		out.Min = &value
	}
	if f.Max != nil {
		value := *f.Max
		out.Max = &value
	}
	if f.DefaultValue != nil {
		value := *f.DefaultValue
		out.DefaultValue = &value
	}
	return out
}

// FormSchema maps field names to their FieldSchema. It is immutable once
// constructed; accessors hand out copies.
type FormSchema struct {
	fields map[string]FieldSchema
}

// New builds a FormSchema from the provided mapping. Field names are trimmed,
// rule names are trimmed, and the structure is checked for obvious authoring
// mistakes (empty names, min greater than max, negative dp).
func New(fields map[string]FieldSchema) (*FormSchema, error) {
	out := &FormSchema{fields: make(map[string]FieldSchema, len(fields))}
	for rawName, field := range fields {
		name := strings.TrimSpace(rawName)
		if name == "" {
			return nil, fmt.Errorf("schema: field name is required")
		}
		if _, exists := out.fields[name]; exists {
			return nil, fmt.Errorf("schema: duplicate field %q", name)
		}
		normalised, err := normaliseField(name, field)
		if err != nil {
			return nil, err
		}
		out.fields[name] = normalised
	}
	return out, nil
}

// MustNew panics when New fails. Useful for package-level schema literals.
func MustNew(fields map[string]FieldSchema) *FormSchema {
	s, err := New(fields)
	if err != nil {
		panic(err)
	}
	return s
}

func normaliseField(name string, field FieldSchema) (FieldSchema, error) {
	out := field.clone()
	for idx, rule := range out.Rules {
		trimmed := strings.TrimSpace(rule)
		if trimmed == "" {
			return FieldSchema{}, fmt.Errorf("schema: field %q rule %d is empty", name, idx)
		}
		out.Rules[idx] = trimmed
	}
	if out.Min != nil && out.Max != nil && *out.Min > *out.Max {
		return FieldSchema{}, fmt.Errorf("schema: field %q min %v is greater than max %v", name, *out.Min, *out.Max)
	}
	if out.DP < 0 {
		return FieldSchema{}, fmt.Errorf("schema: field %q dp must not be negative", name)
	}
	return out, nil
}

// Field returns the schema configured for name.
func (s *FormSchema) Field(name string) (FieldSchema, bool) {
	if s == nil {
		return FieldSchema{}, false
	}
	field, ok := s.fields[name]
	if !ok {
		return FieldSchema{}, false
	}
	return field.clone(), true
}

// Names returns the configured field names in sorted order.
func (s *FormSchema) Names() []string {
	if s == nil || len(s.fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of configured fields.
func (s *FormSchema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Fields returns a copy of the underlying mapping.
func (s *FormSchema) Fields() map[string]FieldSchema {
	if s == nil || len(s.fields) == 0 {
		return nil
	}
	out := make(map[string]FieldSchema, len(s.fields))
	for name, field := range s.fields {
		out[name] = field.clone()
	}
	return out
}

// Float returns a pointer to v, for building FieldSchema literals.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to v, for building FieldSchema literals.
func String(v string) *string {
	return &v
}
