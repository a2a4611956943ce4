// Package openapi derives form schemas from OpenAPI 3 request bodies using
// kin-openapi. Required properties gain the required rule, integers map to
// number, numbers to float (multipleOf sets dp), and date/time string formats
// to the date and time rules. Bounds and defaults carry over; the
// x-formcheck-rules and x-formcheck-dp extensions add custom rules or override
// dp.
package openapi
