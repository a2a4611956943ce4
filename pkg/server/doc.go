// Package server exposes a form page over HTTP with chi and validates posted
// submissions against a schema before handing them to an accept callback.
// Invalid submissions are answered with the same page, inline errors filled
// in, and status 422.
package server
