package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/feedback"
	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/form/prompt"
	"github.com/goliatone/go-formcheck/pkg/report"
	"github.com/goliatone/go-formcheck/pkg/schema"
	"github.com/goliatone/go-formcheck/pkg/schema/openapi"
	"github.com/goliatone/go-formcheck/pkg/server"
	"github.com/goliatone/go-formcheck/pkg/submit"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func loadSchema(cfg config) (*schema.FormSchema, error) {
	path := strings.TrimSpace(cfg.Schema)
	if path == "" {
		return nil, errors.New("formcheck: --schema (or FORMCHECK_SCHEMA) is required")
	}
	return schema.LoadFile(path)
}

func runCheck(ctx context.Context, cfg config, args []string, std streams) (int, error) {
	fs := newFlagSet("check", &cfg, std.err)
	valuesPath := fs.String("values", "-", "values document (JSON object), - reads stdin")
	fs.StringVarP(&cfg.Format, "format", "f", cfg.Format, "report format: text, html, json")
	if err := parseFlags(fs, args); err != nil {
		return exitError, err
	}

	logger, err := newLogger(cfg.LogLevel, std.err)
	if err != nil {
		return exitError, err
	}
	defer func() { _ = logger.Sync() }()

	s, err := loadSchema(cfg)
	if err != nil {
		return exitError, err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return exitError, err
	}
	values, err := readValues(std.in, *valuesPath)
	if err != nil {
		return exitError, err
	}

	f := form.NewMemory()
	for _, name := range s.Names() {
		f.Add(form.NewInput(name, values.Get(name)))
	}
	result, err := validation.New(validation.WithLogger(logger)).InitValidation(f, s).Evaluate()
	if err != nil {
		return exitError, err
	}

	reporter, err := report.New()
	if err != nil {
		return exitError, err
	}
	if err := reporter.Render(std.out, format, result); err != nil {
		return exitError, err
	}
	if !result.Valid {
		return exitInvalid, nil
	}
	return exitOK, nil
}

func runPrompt(ctx context.Context, cfg config, args []string, std streams) (int, error) {
	fs := newFlagSet("prompt", &cfg, std.err)
	attempts := fs.Int("max-attempts", 5, "rounds of prompting before giving up")
	if err := parseFlags(fs, args); err != nil {
		return exitError, err
	}

	logger, err := newLogger(cfg.LogLevel, std.err)
	if err != nil {
		return exitError, err
	}
	defer func() { _ = logger.Sync() }()

	s, err := loadSchema(cfg)
	if err != nil {
		return exitError, err
	}

	session := prompt.New(s,
		prompt.WithDriver(prompt.NewSurveyDriver(std.err)),
		prompt.WithMaxAttempts(*attempts),
	)
	values, err := session.Run(ctx, submit.New(submit.WithLogger(logger)))
	if err != nil {
		return exitError, err
	}
	return exitOK, writeValues(std.out, values)
}

func runServe(ctx context.Context, cfg config, args []string, std streams) (int, error) {
	fs := newFlagSet("serve", &cfg, std.err)
	pagePath := fs.String("page", "", "HTML page containing the form")
	formID := fs.String("form", "", "id of the form to validate, first form when empty")
	redirect := fs.String("redirect", "", "location valid submissions are redirected to")
	themePath := fs.String("theme", "", "go-theme manifest providing feedback class tokens")
	themeVariant := fs.String("theme-variant", "", "theme variant to resolve")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	if err := parseFlags(fs, args); err != nil {
		return exitError, err
	}

	logger, err := newLogger(cfg.LogLevel, std.err)
	if err != nil {
		return exitError, err
	}
	defer func() { _ = logger.Sync() }()

	s, err := loadSchema(cfg)
	if err != nil {
		return exitError, err
	}
	if strings.TrimSpace(*pagePath) == "" {
		return exitError, errors.New("formcheck: --page is required")
	}
	page, err := os.ReadFile(*pagePath)
	if err != nil {
		return exitError, fmt.Errorf("formcheck: read page: %w", err)
	}

	renderer, err := loadFeedback(*themePath, *themeVariant)
	if err != nil {
		return exitError, err
	}

	srv, err := server.New(page, s,
		server.WithFeedback(renderer),
		server.WithFormID(*formID),
		server.WithRedirect(*redirect),
		server.WithLogger(logger),
		server.WithAccept(func(_ context.Context, values url.Values) error {
			logger.Info("formcheck: submission accepted", zap.Any("values", values))
			return nil
		}),
	)
	if err != nil {
		return exitError, err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("formcheck: listening", zap.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return exitOK, nil
		}
		return exitError, fmt.Errorf("formcheck: serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return exitError, fmt.Errorf("formcheck: shutdown: %w", err)
		}
		return exitOK, nil
	}
}

func runImport(ctx context.Context, cfg config, args []string, std streams) (int, error) {
	fs := newFlagSet("import", &cfg, std.err)
	specPath := fs.String("openapi", "", "OpenAPI 3 document (JSON or YAML)")
	operation := fs.String("operation", "", "operationId whose request body becomes the schema")
	if err := parseFlags(fs, args); err != nil {
		return exitError, err
	}
	if strings.TrimSpace(*specPath) == "" || strings.TrimSpace(*operation) == "" {
		return exitError, errors.New("formcheck: --openapi and --operation are required")
	}

	raw, err := os.ReadFile(*specPath)
	if err != nil {
		return exitError, fmt.Errorf("formcheck: read openapi document: %w", err)
	}
	s, err := openapi.FromOperation(ctx, raw, *operation)
	if err != nil {
		return exitError, err
	}
	out, err := schema.MarshalYAML(s)
	if err != nil {
		return exitError, err
	}
	if _, err := std.out.Write(out); err != nil {
		return exitError, err
	}
	return exitOK, nil
}

func runLint(ctx context.Context, cfg config, args []string, std streams) (int, error) {
	fs := newFlagSet("lint", &cfg, std.err)
	if err := parseFlags(fs, args); err != nil {
		return exitError, err
	}

	logger, err := newLogger(cfg.LogLevel, std.err)
	if err != nil {
		return exitError, err
	}
	defer func() { _ = logger.Sync() }()

	s, err := loadSchema(cfg)
	if err != nil {
		return exitError, err
	}

	unknown := validation.New(validation.WithLogger(logger)).InitValidation(form.NewMemory(), s).CheckSchema()
	if len(unknown) == 0 {
		fmt.Fprintf(std.out, "%s: ok (%d fields)\n", cfg.Schema, s.Len())
		return exitOK, nil
	}
	for _, name := range unknown {
		fmt.Fprintf(std.out, "%s: unknown rule %q\n", cfg.Schema, name)
	}
	return exitInvalid, nil
}

// loadFeedback builds the inline feedback renderer, themed when a manifest
// path is given.
func loadFeedback(manifestPath, variant string) (*feedback.Renderer, error) {
	manifestPath = strings.TrimSpace(manifestPath)
	if manifestPath == "" {
		return feedback.New(), nil
	}
	cfg, err := feedback.LoadTheme(os.DirFS(filepath.Dir(manifestPath)), filepath.Base(manifestPath), variant)
	if err != nil {
		return nil, err
	}
	return feedback.New(feedback.WithTheme(cfg)), nil
}

// readValues decodes a flat JSON object of field values. Numbers and booleans
// are accepted and converted to their string form.
func readValues(stdin io.Reader, path string) (url.Values, error) {
	var r io.Reader
	switch strings.TrimSpace(path) {
	case "", "-":
		if stdin == nil {
			return nil, errors.New("formcheck: no values provided")
		}
		r = stdin
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("formcheck: open values: %w", err)
		}
		defer file.Close()
		r = file
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("formcheck: decode values: %w", err)
	}

	values := make(url.Values, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case nil:
			values.Set(name, "")
		case string:
			values.Set(name, v)
		case json.Number:
			values.Set(name, v.String())
		case bool:
			values.Set(name, strconv.FormatBool(v))
		default:
			return nil, fmt.Errorf("formcheck: value %q must be a string, number or bool", name)
		}
	}
	return values, nil
}

func writeValues(w io.Writer, values url.Values) error {
	flat := make(map[string]string, len(values))
	for name := range values {
		flat[name] = values.Get(name)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(flat)
}
