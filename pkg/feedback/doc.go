// Package feedback renders validation outcomes onto host inputs: a valid or
// invalid class marker and an error slot holding the field's messages joined
// with ", ". Class names and the separator can be overridden directly or via a
// go-theme renderer configuration.
package feedback
