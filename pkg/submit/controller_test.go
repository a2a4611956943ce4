package submit_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/schema"
	"github.com/goliatone/go-formcheck/pkg/submit"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

func eventSchema() *schema.FormSchema {
	return schema.MustNew(map[string]schema.FieldSchema{
		"user_id":     {Rules: []string{"required", "number"}, Min: schema.Float(1), Max: schema.Float(9999)},
		"category_id": {Rules: []string{"number"}, Min: schema.Float(1), Max: schema.Float(100), DefaultValue: schema.String("-1")},
	})
}

type fixture struct {
	form     *form.Memory
	userID   *form.MemoryInput
	category *form.MemoryInput
	notes    *form.MemoryInput
	button   *form.MemoryButton
	posted   []url.Values
}

func newFixture(userID string) *fixture {
	fx := &fixture{
		userID:   form.NewInput("user_id", userID),
		category: form.NewInput("category_id", ""),
		notes:    form.NewInput("notes", ""),
		button:   form.NewSubmitButton("save", "Save"),
	}
	fx.form = form.NewMemory(fx.userID, fx.category, fx.notes, fx.button).
		OnSubmit(func(_ context.Context, values url.Values) error {
			fx.posted = append(fx.posted, values)
			return nil
		})
	return fx
}

func TestController_InvalidFormBlocksSubmission(t *testing.T) {
	fx := newFixture("0")
	ctrl := submit.New().Setup(fx.form, eventSchema())

	if err := fx.form.Click(context.Background()); err != nil {
		t.Fatalf("click: %v", err)
	}
	if fx.form.Submissions() != 0 {
		t.Fatalf("invalid form must not be submitted")
	}
	if fx.category.Value() != "" {
		t.Fatalf("defaults must not be applied to an invalid form, got %q", fx.category.Value())
	}
	if fx.userID.ErrorText() != "This number cannot be less than 1" {
		t.Fatalf("expected inline error, got %q", fx.userID.ErrorText())
	}
	if outcome, err := ctrl.LastOutcome(); outcome != submit.OutcomeBlocked || err != nil {
		t.Fatalf("expected blocked outcome, got %v %v", outcome, err)
	}
	if ctrl.State() != submit.StateConfigured {
		t.Fatalf("expected configured state, got %v", ctrl.State())
	}
}

func TestController_ValidFormAppliesDefaultsThenSubmits(t *testing.T) {
	fx := newFixture("42")
	ctrl := submit.New().Setup(fx.form, eventSchema())

	if err := fx.form.Click(context.Background()); err != nil {
		t.Fatalf("click: %v", err)
	}
	if fx.form.Submissions() != 1 {
		t.Fatalf("expected one submission, got %d", fx.form.Submissions())
	}
	want := []url.Values{{
		"user_id":     {"42"},
		"category_id": {"-1"},
		"notes":       {""},
	}}
	if diff := cmp.Diff(want, fx.posted); diff != "" {
		t.Fatalf("posted values mismatch (-want +got):\n%s", diff)
	}
	if fx.notes.Value() != "" {
		t.Fatalf("inputs without a schema entry must not get defaults")
	}
	if outcome, _ := ctrl.LastOutcome(); outcome != submit.OutcomeSubmitted {
		t.Fatalf("expected submitted outcome, got %v", outcome)
	}
}

func TestController_SetDefaultsKeepsExistingValues(t *testing.T) {
	fx := newFixture("42")
	fx.category.SetValue("7")
	ctrl := submit.New().Setup(fx.form, eventSchema())

	ctrl.SetDefaults()
	if fx.category.Value() != "7" {
		t.Fatalf("existing value must be kept, got %q", fx.category.Value())
	}
}

func TestController_SubmitError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	boom := errors.New("boom")
	f := form.NewMemory(form.NewInput("user_id", "5"), form.NewSubmitButton("save", "Save")).
		OnSubmit(func(context.Context, url.Values) error { return boom })
	ctrl := submit.New(submit.WithLogger(zap.New(core))).Setup(f, eventSchema())

	outcome, err := ctrl.Submit(context.Background())
	if outcome != submit.OutcomeFailed || !errors.Is(err, boom) {
		t.Fatalf("expected failed outcome, got %v %v", outcome, err)
	}
	if logs.FilterMessage("submit: form submission failed").Len() != 1 {
		t.Fatalf("expected submission failure to be logged")
	}
}

func TestController_DestroyUnbinds(t *testing.T) {
	fx := newFixture("0")
	ctrl := submit.New().Setup(fx.form, eventSchema())
	if !ctrl.Bound() || fx.button.Count(form.EventClick) != 1 {
		t.Fatalf("expected click handler to be bound")
	}

	ctrl.Destroy()
	ctrl.Destroy()
	if ctrl.Bound() || fx.button.Count(form.EventClick) != 0 {
		t.Fatalf("expected click handler to be removed")
	}
	if ctrl.State() != submit.StateDestroyed {
		t.Fatalf("expected destroyed state, got %v", ctrl.State())
	}

	// With the handler gone the host submits natively.
	if err := fx.form.Click(context.Background()); err != nil {
		t.Fatalf("click: %v", err)
	}
	if fx.form.Submissions() != 1 {
		t.Fatalf("expected native submission after destroy, got %d", fx.form.Submissions())
	}
}

func TestController_UnsupportedTriggerIsUncontrolled(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	plain := form.NewTypedInput("save", form.TypeSubmit, "Save")
	f := form.NewMemory(form.NewInput("user_id", ""), plain)
	ctrl := submit.New(submit.WithLogger(zap.New(core))).Setup(f, eventSchema())

	if ctrl.Bound() {
		t.Fatalf("expected no binding")
	}
	if ctrl.SubmitButton() != form.Input(plain) {
		t.Fatalf("expected submit button lookup to find the plain input")
	}
	if logs.FilterMessage("submit: submit input does not support event listeners, submission is not validated").Len() != 1 {
		t.Fatalf("expected environment warning, got %v", logs.All())
	}
	if err := f.Click(context.Background()); err != nil {
		t.Fatalf("click: %v", err)
	}
	if f.Submissions() != 1 {
		t.Fatalf("uncontrolled trigger should submit natively")
	}
}

func TestController_DestroyWithoutSetup(t *testing.T) {
	ctrl := submit.New()
	if ctrl.SubmitButton() != nil {
		t.Fatalf("expected no submit button before setup")
	}
	ctrl.SetDefaults()
	ctrl.Destroy()
	if ctrl.State() != submit.StateDestroyed {
		t.Fatalf("expected destroyed state")
	}
}

func TestController_SubmitAfterDestroyIsRefused(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fx := newFixture("42")
	ctrl := submit.New(submit.WithLogger(zap.New(core))).Setup(fx.form, eventSchema())
	ctrl.Destroy()

	outcome, err := ctrl.Submit(context.Background())
	if outcome != submit.OutcomeFailed || !errors.Is(err, submit.ErrDestroyed) {
		t.Fatalf("Submit() = %v, %v", outcome, err)
	}
	if !errors.Is(err, validation.ErrMisconfigured) {
		t.Fatalf("expected misconfiguration error, got %v", err)
	}
	if fx.form.Submissions() != 0 || len(fx.posted) != 0 {
		t.Fatalf("destroyed controller submitted the form")
	}
	if fx.category.Value() != "" {
		t.Fatalf("destroyed controller applied defaults")
	}
	if last, _ := ctrl.LastOutcome(); last != submit.OutcomeNone {
		t.Fatalf("last outcome changed to %v", last)
	}
	if logs.FilterMessage("submit: submit called on a destroyed controller").Len() != 1 {
		t.Fatalf("expected destroyed warning, got %v", logs.All())
	}
}
