// Package schema defines the declarative per-field validation contract. A
// FormSchema maps input names to an ordered list of rule names plus optional
// numeric bounds (min/max), a decimal-place constraint (dp) and a default value
// injected on successful submission. Schemas are built once, either from Go
// literals through New or from JSON/YAML documents through Parse, and are
// immutable afterwards. Inputs whose name is absent from the schema are never
// validated and never receive defaults.
package schema
