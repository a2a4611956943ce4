package report

import (
	"encoding/json"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/testsupport"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

var sample = validation.Result{
	Valid: false,
	Fields: []validation.FieldResult{
		{Name: "user_id", Valid: false, Errors: []string{"Required field", "Value must be number"}},
		{Name: "date", Valid: true},
	},
}

func TestRender_Text(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := r.String(FormatText, sample)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"form is invalid (2 fields checked)",
		"FAIL  user_id: Required field, Value must be number",
		"ok    date",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestRender_HTMLEscapes(t *testing.T) {
	r, _ := New()
	result := validation.Result{Fields: []validation.FieldResult{
		{Name: "a", Errors: []string{"<b>bad</b>"}},
	}}
	out, err := r.String(FormatHTML, result)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<b>bad</b>") || !strings.Contains(out, "&lt;b&gt;bad&lt;/b&gt;") {
		t.Fatalf("expected escaped message:\n%s", out)
	}
	if !strings.Contains(out, `class="v-invalid"`) {
		t.Fatalf("expected invalid marker:\n%s", out)
	}
}

func TestRender_JSON(t *testing.T) {
	r, _ := New()
	out := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return r.Render(w, FormatJSON, sample)
	})

	const golden = "testdata/sample.json.golden"
	if testsupport.WriteMaybeGolden(t, golden, []byte(out)) {
		return
	}
	if diff := testsupport.CompareGolden(testsupport.MustReadGoldenString(t, golden), out); diff != "" {
		t.Fatalf("json golden mismatch (-want +got):\n%s", diff)
	}

	var decoded validation.Result
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(sample, decoded); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"text.tpl": {Data: []byte(`{% for field in fields %}{{ field.name }}={{ field.message }};{% endfor %}`)},
	}
	r, err := New(WithTemplates(files), WithSeparator(" | "))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := r.String(FormatText, sample)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "user_id=Required field | Value must be number;date=;" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := r.String(FormatHTML, sample); err == nil {
		t.Fatalf("expected missing html template error")
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "html": FormatHTML, " json ": FormatJSON} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
