// Package validation walks a form's inputs, resolves each input's schema
// entry, and applies the named rules in declaration order. Messages accumulate
// rather than short-circuit, and the form is valid only when every evaluated
// field is. Evaluate is side-effect free; Validate additionally hands each
// field outcome to a Renderer (by default the feedback package) so hosts can
// show inline errors.
//
// Validation failures are data: they are reported through Result. Programmer
// errors (no bound form or schema, unknown rule names) are logged, and the
// missing-binding case is also returned as an error wrapping ErrMisconfigured.
package validation
