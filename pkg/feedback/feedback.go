package feedback

import (
	"html"
	"regexp"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formcheck/pkg/form"
)

// Default class names and separator applied to decorated inputs.
const (
	DefaultValidClass   = "v-valid"
	DefaultInvalidClass = "v-invalid"
	DefaultSeparator    = ", "
)

// Theme token keys read by WithTheme.
const (
	TokenValidClass   = "validation.valid"
	TokenInvalidClass = "validation.invalid"
	TokenSeparator    = "validation.separator"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	// markupPattern matches a complete element tag or comment opener. A bare
	// "<" in text such as "a<b" is not markup.
	markupPattern = regexp.MustCompile(`<(/?[A-Za-z][A-Za-z0-9-]*(\s[^<>]*)?/?>|!--)`)
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithClasses overrides the valid/invalid class names. Empty values keep the
// defaults.
func WithClasses(valid, invalid string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(valid); trimmed != "" {
			r.validClass = trimmed
		}
		if trimmed := strings.TrimSpace(invalid); trimmed != "" {
			r.invalidClass = trimmed
		}
	}
}

// WithSeparator overrides the string used to join messages.
func WithSeparator(sep string) Option {
	return func(r *Renderer) {
		if sep != "" {
			r.separator = sep
		}
	}
}

// WithTheme reads class names and the separator from a resolved theme's tokens.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		if cfg == nil || len(cfg.Tokens) == 0 {
			return
		}
		WithClasses(cfg.Tokens[TokenValidClass], cfg.Tokens[TokenInvalidClass])(r)
		WithSeparator(cfg.Tokens[TokenSeparator])(r)
	}
}

// Renderer translates a field outcome into host UI mutations.
type Renderer struct {
	validClass   string
	invalidClass string
	separator    string
}

// New constructs a Renderer with defaults applied before options.
func New(options ...Option) *Renderer {
	r := &Renderer{
		validClass:   DefaultValidClass,
		invalidClass: DefaultInvalidClass,
		separator:    DefaultSeparator,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Render marks input valid or invalid and replaces its error slot with the
// joined messages. Inputs that cannot display feedback are left untouched.
func (r *Renderer) Render(input form.Input, valid bool, messages []string) {
	target, ok := input.(form.Decorated)
	if !ok || r == nil {
		return
	}
	target.ToggleClass(r.invalidClass, !valid)
	target.ToggleClass(r.validClass, valid)
	target.SetErrorText(r.Text(messages))
}

// Text joins messages with the configured separator. Messages carrying
// element tags are reduced to their text; other messages are kept verbatim.
// The result is plain text; hosts escape it when writing HTML.
func (r *Renderer) Text(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	cleaned := make([]string, 0, len(messages))
	for _, message := range messages {
		text := strings.TrimSpace(plainText(message))
		if text == "" {
			continue
		}
		cleaned = append(cleaned, text)
	}
	sep := DefaultSeparator
	if r != nil && r.separator != "" {
		sep = r.separator
	}
	return strings.Join(cleaned, sep)
}

// Classes reports the valid and invalid class names in use.
func (r *Renderer) Classes() (valid, invalid string) {
	return r.validClass, r.invalidClass
}

func plainText(message string) string {
	if !markupPattern.MatchString(message) {
		return message
	}
	return html.UnescapeString(sanitizer().Sanitize(message))
}

func sanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
