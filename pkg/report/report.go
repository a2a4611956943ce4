package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formcheck/pkg/validation"
)

//go:embed templates/*.tpl
var embedded embed.FS

// Format selects the report output.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("report: unknown format %q", raw)
	}
}

// Option configures a Reporter.
type Option func(*config)

type config struct {
	templates fs.FS
	separator string
}

// WithTemplates loads text.tpl and html.tpl from files instead of the
// embedded defaults.
func WithTemplates(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithSeparator overrides the string used to join a field's messages.
func WithSeparator(sep string) Option {
	return func(cfg *config) {
		if sep != "" {
			cfg.separator = sep
		}
	}
}

// Reporter renders validation results through pongo2 templates.
type Reporter struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[Format]*pongo2.Template
	separator string
}

// New constructs a Reporter.
func New(options ...Option) (*Reporter, error) {
	cfg := &config{separator: ", "}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, fmt.Errorf("report: embedded templates: %w", err)
		}
		cfg.templates = sub
	}

	return &Reporter{
		set:       pongo2.NewSet("formcheck", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[Format]*pongo2.Template),
		separator: cfg.separator,
	}, nil
}

// Render writes result to w in the requested format.
func (r *Reporter) Render(w io.Writer, format Format, result validation.Result) error {
	if r == nil || r.set == nil {
		return errors.New("report: reporter is nil")
	}
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("report: encode json: %w", err)
		}
		return nil
	}

	tmpl, err := r.template(format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(r.context(result), &buf); err != nil {
		return fmt.Errorf("report: execute %s template: %w", format, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// String renders result to a string.
func (r *Reporter) String(format Format, result validation.Result) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, format, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Reporter) context(result validation.Result) pongo2.Context {
	fields := make([]map[string]any, 0, len(result.Fields))
	for _, field := range result.Fields {
		fields = append(fields, map[string]any{
			"name":    field.Name,
			"valid":   field.Valid,
			"errors":  append([]string(nil), field.Errors...),
			"message": strings.Join(field.Errors, r.separator),
		})
	}
	return pongo2.Context{
		"valid":  result.Valid,
		"fields": fields,
	}
}

func (r *Reporter) template(format Format) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[format]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[format]; ok {
		return tmpl, nil
	}
	switch format {
	case FormatText, FormatHTML:
	default:
		return nil, fmt.Errorf("report: unknown format %q", format)
	}

	tmpl, err := r.set.FromFile(string(format) + ".tpl")
	if err != nil {
		return nil, fmt.Errorf("report: load %s template: %w", format, err)
	}
	r.templates[format] = tmpl
	return tmpl, nil
}
