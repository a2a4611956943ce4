package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/feedback"
	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/form/htmlform"
	"github.com/goliatone/go-formcheck/pkg/rules"
	"github.com/goliatone/go-formcheck/pkg/schema"
	"github.com/goliatone/go-formcheck/pkg/submit"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// AcceptFunc receives the values of a form that passed validation.
type AcceptFunc func(ctx context.Context, values url.Values) error

// Option configures a Server.
type Option func(*Server)

// WithAccept sets the callback invoked for valid submissions.
func WithAccept(fn AcceptFunc) Option {
	return func(s *Server) {
		s.accept = fn
	}
}

// WithRedirect sets the location valid submissions are redirected to.
func WithRedirect(location string) Option {
	return func(s *Server) {
		if location != "" {
			s.redirect = location
		}
	}
}

// WithFormID selects the form inside the page by id.
func WithFormID(id string) Option {
	return func(s *Server) {
		s.formID = id
	}
}

// WithRegistry sets the rule registry shared by every request.
func WithRegistry(registry *rules.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithFeedback overrides how inline errors are rendered into the page.
func WithFeedback(renderer *feedback.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.feedback = renderer
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server serves an HTML form page and validates its submissions server-side.
// Each request parses a fresh copy of the page so no form state is shared.
type Server struct {
	page     []byte
	schema   *schema.FormSchema
	formID   string
	redirect string
	accept   AcceptFunc
	registry *rules.Registry
	feedback *feedback.Renderer
	logger   *zap.Logger
}

// New checks that page holds the selected form and returns a Server.
func New(page []byte, s *schema.FormSchema, options ...Option) (*Server, error) {
	if s == nil {
		return nil, fmt.Errorf("server: schema is required")
	}
	srv := &Server{
		page:     append([]byte(nil), page...),
		schema:   s,
		redirect: "?submitted=1",
		registry: rules.NewRegistry(),
		feedback: feedback.New(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(srv)
	}
	if _, _, err := srv.load(nil); err != nil {
		return nil, err
	}
	return srv, nil
}

// Handler returns the HTTP routes: GET / renders the page, POST / validates
// and either re-renders it with inline errors or accepts it, and
// POST /validate answers with the JSON validation result.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Post("/", s.handleSubmit)
	r.Post("/validate", s.handleValidate)
	return r
}

func (s *Server) load(accept form.SubmitFunc) (*htmlform.Document, *htmlform.Form, error) {
	doc, err := htmlform.Parse(bytes.NewReader(s.page))
	if err != nil {
		return nil, nil, fmt.Errorf("server: %w", err)
	}
	f, err := doc.Form(s.formID, htmlform.WithSubmitFunc(accept))
	if err != nil {
		return nil, nil, fmt.Errorf("server: %w", err)
	}
	return doc, f, nil
}

func (s *Server) validator() *validation.Validator {
	return validation.New(
		validation.WithRegistry(s.registry),
		validation.WithRenderer(s.feedback),
		validation.WithLogger(s.logger),
	)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	doc, _, err := s.load(nil)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeDocument(w, http.StatusOK, doc)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	doc, f, err := s.load(func(ctx context.Context, values url.Values) error {
		if s.accept == nil {
			return nil
		}
		return s.accept(ctx, values)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	f.Fill(r.PostForm)

	ctrl := submit.New(
		submit.WithValidator(s.validator()),
		submit.WithLogger(s.logger),
	).Setup(f, s.schema)
	defer ctrl.Destroy()

	if err := f.Click(r.Context()); err != nil {
		s.fail(w, err)
		return
	}

	outcome, err := ctrl.LastOutcome()
	if outcome == submit.OutcomeNone {
		// page without a submit input: validate directly
		outcome, err = ctrl.Submit(r.Context())
	}
	switch outcome {
	case submit.OutcomeSubmitted:
		http.Redirect(w, r, s.redirect, http.StatusSeeOther)
	case submit.OutcomeBlocked:
		writeDocument(w, http.StatusUnprocessableEntity, doc)
	default:
		s.fail(w, err)
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	f := form.NewMemory()
	for _, name := range s.schema.Names() {
		f.Add(form.NewInput(name, r.PostForm.Get(name)))
	}
	result, err := s.validator().InitValidation(f, s.schema).Evaluate()
	if err != nil {
		s.fail(w, err)
		return
	}

	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Warn("server: encode result", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("server: request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeDocument(w http.ResponseWriter, status int, doc *htmlform.Document) {
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
