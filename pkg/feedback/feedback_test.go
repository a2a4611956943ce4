package feedback

import (
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/form"
)

func TestRender_TogglesClassesAndReplacesText(t *testing.T) {
	r := New()
	input := form.NewInput("user_id", "0")

	r.Render(input, false, []string{"Required field", "This number cannot be less than 1"})
	if diff := cmp.Diff([]string{"v-invalid"}, input.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	if got := input.ErrorText(); got != "Required field, This number cannot be less than 1" {
		t.Fatalf("unexpected error text %q", got)
	}

	r.Render(input, true, nil)
	if diff := cmp.Diff([]string{"v-valid"}, input.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	if input.ErrorText() != "" {
		t.Fatalf("expected previous messages to be cleared, got %q", input.ErrorText())
	}
}

func TestRender_SkipsUndecoratedInputs(t *testing.T) {
	var plain plainInput
	New().Render(&plain, false, []string{"x"})
}

func TestText_StripsMarkup(t *testing.T) {
	got := New().Text([]string{"<b>Too</b> big & bold", "<script>alert(1)</script>", "  "})
	if got != "Too big & bold" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
}

func TestText_KeepsComparisonsIntact(t *testing.T) {
	got := New().Text([]string{"must satisfy a<b", "x<y", "1 < 2 & 3 > 2"})
	if want := "must satisfy a<b, x<y, 1 < 2 & 3 > 2"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
}

func TestOptions(t *testing.T) {
	cfg := &theme.RendererConfig{Tokens: map[string]string{
		TokenValidClass:   "is-valid",
		TokenInvalidClass: "is-invalid",
		TokenSeparator:    "; ",
	}}
	r := New(WithTheme(cfg))
	valid, invalid := r.Classes()
	if valid != "is-valid" || invalid != "is-invalid" {
		t.Fatalf("unexpected classes %q %q", valid, invalid)
	}
	if got := r.Text([]string{"a", "b"}); got != "a; b" {
		t.Fatalf("unexpected separator result %q", got)
	}

	r = New(WithClasses(" ", "bad"), WithSeparator(""), WithTheme(nil))
	valid, invalid = r.Classes()
	if valid != DefaultValidClass || invalid != "bad" {
		t.Fatalf("unexpected classes %q %q", valid, invalid)
	}
	if got := r.Text([]string{"a", "b"}); got != "a, b" {
		t.Fatalf("unexpected default separator result %q", got)
	}
}

type plainInput struct{ value string }

func (p *plainInput) Name() string          { return "plain" }
func (p *plainInput) Type() string          { return form.TypeText }
func (p *plainInput) Value() string         { return p.value }
func (p *plainInput) SetValue(value string) { p.value = value }
