package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/schema"
)

const eventSchema = `fields:
  user_id:
    rules: [required, number]
    min: 1
  date:
    rules: [required, date]
  category_id:
    rules: [number]
    defaultValue: -1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, environ map[string]string, stdin string, args ...string) (int, string, string) {
	t.Helper()
	if environ == nil {
		environ = map[string]string{}
	}
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, environ, streams{
		in:  strings.NewReader(stdin),
		out: &out,
		err: &errOut,
	})
	return code, out.String(), errOut.String()
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, nil, "", "explode")
	if code != exitError {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(stderr, `unknown command "explode"`) || !strings.Contains(stderr, "Usage:") {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
}

func TestCheck_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "event.yaml", eventSchema)

	code, stdout, stderr := runCLI(t, nil, `{"user_id": 0, "date": "2018-13-01"}`, "check", "--schema", schemaPath)
	if code != exitInvalid {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
	for _, want := range []string{
		"form is invalid (3 fields checked)",
		"FAIL  user_id: This number cannot be less than 1",
		"FAIL  date: Date must be in the correct format",
		"ok    category_id",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("report missing %q:\n%s", want, stdout)
		}
	}
}

func TestCheck_SchemaFromEnvironmentAndJSONFormat(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "event.yaml", eventSchema)
	valuesPath := writeFile(t, dir, "values.json", `{"user_id": "12", "date": "2018-02-01"}`)

	env := map[string]string{"FORMCHECK_SCHEMA": schemaPath, "FORMCHECK_FORMAT": "json"}
	code, stdout, stderr := runCLI(t, env, "", "check", "--values", valuesPath)
	if code != exitOK {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, `"valid": true`) {
		t.Fatalf("expected json report:\n%s", stdout)
	}
}

func TestCheck_RequiresSchema(t *testing.T) {
	code, _, stderr := runCLI(t, nil, "{}", "check")
	if code != exitError || !strings.Contains(stderr, "--schema") {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
}

func TestLint_ReportsUnknownRules(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "bad.yaml", "email:\n  rules: [required, email]\n")

	code, stdout, _ := runCLI(t, nil, "", "lint", "-s", schemaPath)
	if code != exitInvalid {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(stdout, `unknown rule "email"`) {
		t.Fatalf("unexpected output:\n%s", stdout)
	}

	good := writeFile(t, dir, "good.yaml", eventSchema)
	if code, stdout, _ := runCLI(t, nil, "", "lint", "-s", good); code != exitOK || !strings.Contains(stdout, "ok (3 fields)") {
		t.Fatalf("code = %d, output:\n%s", code, stdout)
	}
}

func TestImport_WritesSchemaYAML(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "api.yaml", `openapi: 3.0.3
info: {title: events, version: "1"}
paths:
  /events:
    post:
      operationId: createEvent
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [user_id]
              properties:
                user_id: {type: integer, minimum: 1}
                start_time: {type: string, format: time}
      responses:
        "201": {description: created}
`)

	code, stdout, stderr := runCLI(t, nil, "", "import", "--openapi", specPath, "--operation", "createEvent")
	if code != exitOK {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
	got, err := schema.Parse([]byte(stdout), "import output")
	if err != nil {
		t.Fatalf("parse output: %v\n%s", err, stdout)
	}
	want := map[string]schema.FieldSchema{
		"user_id":    {Rules: []string{"required", "number"}, Min: schema.Float(1)},
		"start_time": {Rules: []string{"time"}},
	}
	if diff := cmp.Diff(want, got.Fields()); diff != "" {
		t.Fatalf("imported schema mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFeedback_Theme(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "theme.yaml", "name: admin\nversion: 1.0.0\ntokens:\n  validation.invalid: is-invalid\n")

	renderer, err := loadFeedback(manifest, "")
	if err != nil {
		t.Fatalf("load feedback: %v", err)
	}
	if _, invalid := renderer.Classes(); invalid != "is-invalid" {
		t.Fatalf("invalid class = %q", invalid)
	}

	renderer, err = loadFeedback("", "")
	if err != nil {
		t.Fatalf("default feedback: %v", err)
	}
	if _, invalid := renderer.Classes(); invalid != "v-invalid" {
		t.Fatalf("default invalid class = %q", invalid)
	}

	if _, err := loadFeedback(filepath.Join(dir, "missing.yaml"), ""); err == nil {
		t.Fatalf("expected missing manifest error")
	}
}

func TestReadValues_RejectsNested(t *testing.T) {
	if _, err := readValues(strings.NewReader(`{"a": {"b": 1}}`), "-"); err == nil {
		t.Fatalf("expected nested value error")
	}
}
