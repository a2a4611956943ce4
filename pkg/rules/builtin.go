package rules

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formcheck/pkg/schema"
)

// Built-in rule identifiers registered by NewRegistry.
const (
	RuleRequired = "required"
	RuleNumber   = "number"
	RuleFloat    = "float"
	RuleDate     = "date"
	RuleTime     = "time"
)

// Messages returned by the built-in rules.
var (
	ErrRequired   = errors.New("Required field")
	ErrNotNumber  = errors.New("Value must be number")
	ErrDateFormat = errors.New("Date must be in the correct format")
	ErrTimeFormat = errors.New("Time must be in the correct format")
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-[0-1]\d-([0-2]\d|3[01])$`)
	timePattern = regexp.MustCompile(`^[0-2]\d:[0-5]\d:[0-5]\d$`)
)

// Required fails when the value is empty.
func Required(value string, _ schema.FieldSchema) error {
	if value == "" {
		return ErrRequired
	}
	return nil
}

// Number passes empty values; otherwise the value must parse as a number and
// respect the configured max and min, checked in that order.
func Number(value string, field schema.FieldSchema) error {
	if value == "" {
		return nil
	}
	number, ok := parseNumber(value)
	if !ok {
		return ErrNotNumber
	}
	if field.Max != nil && number > *field.Max {
		return fmt.Errorf("This number cannot be greater than %s", formatBound(*field.Max))
	}
	if field.Min != nil && number < *field.Min {
		return fmt.Errorf("This number cannot be less than %s", formatBound(*field.Min))
	}
	return nil
}

// Float applies Number and, when dp is set, requires a fractional part with at
// most dp digits. Integer-valued input is rejected whenever dp is set.
func Float(value string, field schema.FieldSchema) error {
	if value == "" {
		return nil
	}
	if err := Number(value, field); err != nil {
		return err
	}
	if field.DP <= 0 {
		return nil
	}
	_, fractional, found := strings.Cut(value, ".")
	if !found || fractional == "" || len(fractional) > field.DP {
		return fmt.Errorf("Number must have %d dp", field.DP)
	}
	return nil
}

// Date passes empty values; otherwise the value must be a calendar date in
// YYYY-MM-DD form.
func Date(value string, _ schema.FieldSchema) error {
	if value == "" {
		return nil
	}
	if !datePattern.MatchString(value) {
		return ErrDateFormat
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return ErrDateFormat
	}
	return nil
}

// Time passes empty values; otherwise the value must be a clock time in
// HH:MM:SS form.
func Time(value string, _ schema.FieldSchema) error {
	if value == "" {
		return nil
	}
	if !timePattern.MatchString(value) {
		return ErrTimeFormat
	}
	if _, err := time.Parse(time.TimeOnly, value); err != nil {
		return ErrTimeFormat
	}
	return nil
}

func parseNumber(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	number, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
