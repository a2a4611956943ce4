package validation

import (
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/feedback"
	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/rules"
	"github.com/goliatone/go-formcheck/pkg/schema"
)

// Renderer displays the outcome for a single input.
type Renderer interface {
	Render(input form.Input, valid bool, messages []string)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(input form.Input, valid bool, messages []string)

// Render calls fn.
func (fn RendererFunc) Render(input form.Input, valid bool, messages []string) {
	fn(input, valid, messages)
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry sets the rule registry used to resolve rule names.
func WithRegistry(registry *rules.Registry) Option {
	return func(v *Validator) {
		if registry != nil {
			v.registry = registry
		}
	}
}

// WithRenderer overrides the feedback renderer.
func WithRenderer(renderer Renderer) Option {
	return func(v *Validator) {
		if renderer != nil {
			v.renderer = renderer
		}
	}
}

// WithLogger sets the logger used for misconfiguration warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Validator checks a bound form against a bound schema.
type Validator struct {
	registry *rules.Registry
	renderer Renderer
	logger   *zap.Logger

	form   form.Form
	schema *schema.FormSchema
}

// New constructs a Validator using the built-in rules, the default feedback
// renderer and a no-op logger unless overridden.
func New(options ...Option) *Validator {
	v := &Validator{
		registry: rules.NewRegistry(),
		renderer: feedback.New(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// InitValidation binds the target form and schema. It has no other side
// effects and returns v for chaining.
func (v *Validator) InitValidation(f form.Form, s *schema.FormSchema) *Validator {
	v.form = f
	v.schema = s
	return v
}

// Form returns the bound form.
func (v *Validator) Form() form.Form { return v.form }

// Schema returns the bound schema.
func (v *Validator) Schema() *schema.FormSchema { return v.schema }

// Registry returns the rule registry in use.
func (v *Validator) Registry() *rules.Registry { return v.registry }

// Logger returns the logger in use.
func (v *Validator) Logger() *zap.Logger { return v.logger }

// Evaluate checks every input that has a schema entry and returns the outcome
// without touching the form.
func (v *Validator) Evaluate() (Result, error) {
	return v.run(nil)
}

// Validate checks every input that has a schema entry, renders feedback for
// each evaluated input in order, and reports whether the whole form is valid.
// Every field is evaluated and annotated even after the first failure. A
// missing form or schema is reported as an error wrapping ErrMisconfigured.
func (v *Validator) Validate() (bool, error) {
	result, err := v.run(v.renderer)
	if err != nil {
		return false, err
	}
	return result.Valid, nil
}

// ValidateResult behaves like Validate but returns the full outcome.
func (v *Validator) ValidateResult() (Result, error) {
	return v.run(v.renderer)
}

func (v *Validator) run(renderer Renderer) (Result, error) {
	if v.form == nil {
		v.logger.Warn("validation: validate requires a form")
		return Result{}, ErrFormRequired
	}
	if v.schema == nil {
		v.logger.Warn("validation: validate requires a schema")
		return Result{}, ErrSchemaRequired
	}

	result := Result{Valid: true}
	for _, input := range v.form.Inputs() {
		if input == nil {
			continue
		}
		field, ok := v.schema.Field(input.Name())
		if !ok {
			continue
		}

		fieldResult := v.checkField(input, field)
		if renderer != nil {
			renderer.Render(input, fieldResult.Valid, fieldResult.Errors)
		}
		if !fieldResult.Valid {
			result.Valid = false
		}
		result.Fields = append(result.Fields, fieldResult)
	}
	return result, nil
}

func (v *Validator) checkField(input form.Input, field schema.FieldSchema) FieldResult {
	value := input.Value()
	var messages []string
	for _, name := range field.Rules {
		rule, ok := v.registry.Get(name)
		if !ok {
			v.logger.Warn("validation: rule not registered",
				zap.String("rule", name),
				zap.String("field", input.Name()))
			continue
		}
		if err := rule(value, field); err != nil {
			messages = append(messages, err.Error())
		}
	}
	return FieldResult{
		Name:   input.Name(),
		Valid:  len(messages) == 0,
		Errors: messages,
	}
}

// CheckSchema returns the rule names referenced by the bound schema that have
// no registered implementation, sorted and without duplicates.
func (v *Validator) CheckSchema() []string {
	if v.schema == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, field := range v.schema.Fields() {
		for _, name := range field.Rules {
			if v.registry.Has(name) {
				continue
			}
			seen[name] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
