package prompt

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/schema"
	"github.com/goliatone/go-formcheck/pkg/submit"
)

const defaultMaxAttempts = 5

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithMaxAttempts limits how many rounds of prompting run before giving up.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithValues seeds the answers offered as prompt defaults.
func WithValues(values url.Values) Option {
	return func(s *Session) {
		s.seed = values
	}
}

// Session collects values for every schema field in the terminal and drives
// them through a submit controller until submission succeeds.
type Session struct {
	schema      *schema.FormSchema
	driver      Driver
	maxAttempts int
	seed        url.Values

	form      *form.Memory
	inputs    []*form.MemoryInput
	submitted url.Values
}

// New builds a session with one text input per schema field, in name order,
// followed by a submit button.
func New(s *schema.FormSchema, options ...Option) *Session {
	sess := &Session{
		schema:      s,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(sess)
	}
	if sess.driver == nil {
		sess.driver = NewSurveyDriver(nil)
	}

	sess.form = form.NewMemory()
	for _, name := range s.Names() {
		input := form.NewInput(name, sess.seed.Get(name))
		sess.inputs = append(sess.inputs, input)
		sess.form.Add(input)
	}
	sess.form.Add(form.NewSubmitButton("submit", "Submit"))
	sess.form.OnSubmit(func(_ context.Context, values url.Values) error {
		sess.submitted = values
		return nil
	})
	return sess
}

// Form exposes the in-memory form the session fills.
func (s *Session) Form() *form.Memory { return s.form }

// Run prompts for every field, then re-prompts invalid fields only, until the
// controller lets the submission through. The submitted values are returned.
func (s *Session) Run(ctx context.Context, ctrl *submit.Controller) (url.Values, error) {
	if ctrl == nil {
		ctrl = submit.New()
	}
	ctrl.Setup(s.form, s.schema)
	defer ctrl.Destroy()

	pending := s.inputs
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		for _, input := range pending {
			if err := s.ask(ctx, input); err != nil {
				return nil, err
			}
		}

		if err := s.form.Click(ctx); err != nil {
			return nil, err
		}
		outcome, err := ctrl.LastOutcome()
		switch outcome {
		case submit.OutcomeSubmitted:
			return s.submitted, nil
		case submit.OutcomeFailed:
			return nil, err
		}

		result, err := ctrl.Validator().Evaluate()
		if err != nil {
			return nil, err
		}
		pending = pending[:0:0]
		for _, input := range s.inputs {
			field, ok := result.Field(input.Name())
			if !ok || field.Valid {
				continue
			}
			pending = append(pending, input)
			msg := fmt.Sprintf("%s: %s", input.Name(), strings.Join(field.Errors, ", "))
			if err := s.driver.Info(ctx, msg); err != nil {
				return nil, err
			}
		}
	}
	return nil, ErrTooManyAttempts
}

func (s *Session) ask(ctx context.Context, input *form.MemoryInput) error {
	field, _ := s.schema.Field(input.Name())
	answer, err := s.driver.Ask(ctx, Question{
		Name:    input.Name(),
		Message: input.Name() + ":",
		Default: input.Value(),
		Help:    describe(field),
	})
	if err != nil {
		return err
	}
	input.SetValue(strings.TrimSpace(answer))
	return nil
}

func describe(field schema.FieldSchema) string {
	parts := make([]string, 0, 4)
	if len(field.Rules) > 0 {
		parts = append(parts, "rules: "+strings.Join(field.Rules, ", "))
	}
	if field.Min != nil {
		parts = append(parts, "min "+strconv.FormatFloat(*field.Min, 'f', -1, 64))
	}
	if field.Max != nil {
		parts = append(parts, "max "+strconv.FormatFloat(*field.Max, 'f', -1, 64))
	}
	if field.DP > 0 {
		parts = append(parts, fmt.Sprintf("%d dp", field.DP))
	}
	if field.HasDefault() {
		parts = append(parts, fmt.Sprintf("default %q", field.Default()))
	}
	return strings.Join(parts, "; ")
}
