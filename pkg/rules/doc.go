// Package rules holds the named rule functions schemas refer to and the
// registry that resolves them. A rule maps (value, field schema) to nil or a
// human-readable error. Custom rules are added with Register or Set; the
// validation loop never needs to change to pick them up.
package rules
