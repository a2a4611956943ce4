package submit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/schema"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// ErrDestroyed is returned by Submit once the controller has been destroyed.
var ErrDestroyed = fmt.Errorf("%w: controller is destroyed", validation.ErrMisconfigured)

// State is the lifecycle stage of a Controller.
type State int

const (
	StateUnconfigured State = iota
	StateConfigured
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unconfigured"
	}
}

// Outcome describes how the most recent submission attempt ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSubmitted
	OutcomeBlocked
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithValidator sets the validator the controller delegates to.
func WithValidator(v *validation.Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithLogger sets the logger used for environment and submission warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller gates form submission on validation. It holds a Validator and
// delegates to it explicitly.
type Controller struct {
	validator *validation.Validator
	logger    *zap.Logger

	state   State
	outcome Outcome
	lastErr error
	unbind  func()
}

// New constructs a Controller. Without WithValidator a default validator is
// created that shares the controller's logger.
func New(options ...Option) *Controller {
	c := &Controller{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.validator == nil {
		c.validator = validation.New(validation.WithLogger(c.logger))
	}
	return c
}

// Setup binds validation to f and s, then attaches the submit handler to the
// form's submission trigger. A trigger that cannot accept listeners is logged
// and left unbound, so the form submits without validation.
func (c *Controller) Setup(f form.Form, s *schema.FormSchema) *Controller {
	if c.state == StateDestroyed {
		c.logger.Warn("submit: setup called on a destroyed controller")
		return c
	}
	c.release()
	c.validator.InitValidation(f, s)
	c.state = StateConfigured

	button := c.SubmitButton()
	if button == nil {
		c.logger.Warn("submit: form has no submit input")
		return c
	}
	target, ok := button.(form.EventTarget)
	if !ok {
		c.logger.Warn("submit: submit input does not support event listeners, submission is not validated",
			zap.String("input", button.Name()))
		return c
	}
	c.unbind = target.AddEventListener(form.EventClick, c.handleSubmit)
	return c
}

// Validator returns the validator the controller delegates to.
func (c *Controller) Validator() *validation.Validator { return c.validator }

// Validate delegates to the validator.
func (c *Controller) Validate() (bool, error) { return c.validator.Validate() }

// SubmitButton returns the form's submission trigger, or nil.
func (c *Controller) SubmitButton() form.Input {
	f := c.validator.Form()
	if f == nil {
		return nil
	}
	return form.FindSubmit(f.Inputs())
}

// SetDefaults fills empty inputs with the default configured in the schema.
// Inputs without a schema entry or without a default are left untouched.
func (c *Controller) SetDefaults() {
	f := c.validator.Form()
	s := c.validator.Schema()
	if f == nil || s == nil {
		return
	}
	for _, input := range f.Inputs() {
		if input == nil {
			continue
		}
		field, ok := s.Field(input.Name())
		if !ok || !field.HasDefault() {
			continue
		}
		if input.Value() == "" {
			input.SetValue(field.Default())
		}
	}
}

// Submit runs the validate, default, submit sequence without an event. It is
// what the bound click handler executes after preventing the default action.
// A destroyed controller neither validates nor submits and keeps its last
// recorded outcome.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	if c.state == StateDestroyed {
		c.logger.Warn("submit: submit called on a destroyed controller")
		return OutcomeFailed, ErrDestroyed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	valid, err := c.validator.Validate()
	if err != nil {
		return c.record(OutcomeFailed, err)
	}
	if !valid {
		return c.record(OutcomeBlocked, nil)
	}

	c.SetDefaults()
	if err := c.validator.Form().Submit(ctx); err != nil {
		c.logger.Warn("submit: form submission failed", zap.Error(err))
		return c.record(OutcomeFailed, err)
	}
	return c.record(OutcomeSubmitted, nil)
}

func (c *Controller) handleSubmit(e form.Event) {
	e.PreventDefault()
	_, _ = c.Submit(e.Context())
}

func (c *Controller) record(outcome Outcome, err error) (Outcome, error) {
	c.outcome = outcome
	c.lastErr = err
	return outcome, err
}

// Destroy removes the submit handler bound by Setup. It is safe to call more
// than once and leaves the form and schema references in place.
func (c *Controller) Destroy() {
	c.release()
	c.state = StateDestroyed
}

func (c *Controller) release() {
	if c.unbind != nil {
		c.unbind()
		c.unbind = nil
	}
}

// Bound reports whether a submit handler is currently attached.
func (c *Controller) Bound() bool { return c.unbind != nil }

// State returns the controller's lifecycle stage.
func (c *Controller) State() State { return c.state }

// LastOutcome returns the result of the most recent submission attempt and
// the error that ended it, if any.
func (c *Controller) LastOutcome() (Outcome, error) { return c.outcome, c.lastErr }
