// Package report renders validation results for people and tools: a plain
// text summary and an HTML fragment through pongo2 templates (embedded
// defaults, overridable via an fs.FS) and an indented JSON encoding.
package report
