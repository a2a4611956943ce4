package feedback

import (
	"testing"
	"testing/fstest"
)

const themeManifest = `name: admin
version: 1.0.0
tokens:
  validation.valid: is-valid
  validation.invalid: is-invalid
variants:
  compact:
    tokens:
      validation.separator: " / "
`

func TestLoadTheme_ResolvesVariantTokens(t *testing.T) {
	files := fstest.MapFS{"themes/admin.yaml": {Data: []byte(themeManifest)}}

	cfg, err := LoadTheme(files, "themes/admin.yaml", "compact")
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	if cfg.Theme != "admin" || cfg.Variant != "compact" {
		t.Fatalf("unexpected selection %q/%q", cfg.Theme, cfg.Variant)
	}

	r := New(WithTheme(cfg))
	valid, invalid := r.Classes()
	if valid != "is-valid" || invalid != "is-invalid" {
		t.Fatalf("unexpected classes %q %q", valid, invalid)
	}
	if got := r.Text([]string{"a", "b"}); got != "a / b" {
		t.Fatalf("unexpected separator result %q", got)
	}
}

func TestLoadTheme_Errors(t *testing.T) {
	files := fstest.MapFS{"nameless.yaml": {Data: []byte("version: 1.0.0\n")}}

	if _, err := LoadTheme(nil, "theme.yaml", ""); err == nil {
		t.Fatalf("expected missing filesystem error")
	}
	if _, err := LoadTheme(files, " ", ""); err == nil {
		t.Fatalf("expected missing path error")
	}
	if _, err := LoadTheme(files, "missing.yaml", ""); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := LoadTheme(files, "nameless.yaml", ""); err == nil {
		t.Fatalf("expected manifest validation error")
	}
}
