package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formcheck/pkg/schema"
)

// Func checks an input value against its field schema. A nil return means the
// value passes; otherwise the error message is shown next to the field.
type Func func(value string, field schema.FieldSchema) error

// Registry stores rule functions by name. Schemas reference rules by these
// names; lookups never fall back to reflection or naming conventions.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Func
}

// NewRegistry creates a registry with the built-in rules registered.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry creates a registry without any rules.
func NewEmptyRegistry() *Registry {
	return &Registry{rules: make(map[string]Func)}
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(RuleRequired, Required)
	r.MustRegister(RuleNumber, Number)
	r.MustRegister(RuleFloat, Float)
	r.MustRegister(RuleDate, Date)
	r.MustRegister(RuleTime, Time)
}

// Register adds a rule by name. Duplicate names return an error.
func (r *Registry) Register(name string, fn Func) error {
	if r == nil {
		return fmt.Errorf("rules: registry is nil")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("rules: rule name is required")
	}
	if fn == nil {
		return fmt.Errorf("rules: rule %q function is required", trimmed)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[trimmed]; exists {
		return fmt.Errorf("rules: rule %q already registered", trimmed)
	}
	r.rules[trimmed] = fn
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Set registers fn under name, replacing any existing rule.
func (r *Registry) Set(name string, fn Func) error {
	if r == nil {
		return fmt.Errorf("rules: registry is nil")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return fmt.Errorf("rules: rule name and function required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules[trimmed] = fn
	return nil
}

// Get retrieves a rule by name.
func (r *Registry) Get(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.rules[name]
	return fn, ok
}

// Has reports whether a rule is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns a sorted list of rule names.
func (r *Registry) List() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
