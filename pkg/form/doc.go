// Package form describes the host UI surface the validator and submit
// controller drive: a form exposing named inputs, inputs that can show
// valid/invalid markers and an error slot, and a submission trigger that
// accepts click listeners. Memory is an in-process implementation used for
// programmatic validation and tests; htmlform and prompt provide HTML and
// terminal hosts.
package form
