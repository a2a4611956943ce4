// Package prompt is a terminal host: it builds an in-memory form from a schema,
// asks for each field with survey prompts, and submits through a submit
// controller, re-asking only the fields that failed validation.
package prompt
