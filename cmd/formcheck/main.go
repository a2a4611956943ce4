package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-formcheck/pkg/form/prompt"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitError   = 2
)

var errUsage = errors.New("formcheck: usage")

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

type command func(ctx context.Context, cfg config, args []string, std streams) (int, error)

var commands = map[string]command{
	"check":  runCheck,
	"prompt": runPrompt,
	"serve":  runServe,
	"import": runImport,
	"lint":   runLint,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], nil, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, environ map[string]string, std streams) int {
	if len(args) == 0 {
		usage(std.err)
		return exitError
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(std.err, "formcheck: unknown command %q\n", args[0])
		usage(std.err)
		return exitError
	}

	cfg, err := loadConfig(environ)
	if err != nil {
		fmt.Fprintln(std.err, err)
		return exitError
	}

	code, err := cmd(ctx, cfg, args[1:], std)
	switch {
	case err == nil:
		return code
	case errors.Is(err, errUsage):
		return exitError
	case errors.Is(err, prompt.ErrAborted):
		fmt.Fprintln(std.err, "formcheck: aborted")
		return exitError
	default:
		fmt.Fprintln(std.err, err)
		return exitError
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: formcheck <command> [flags]

Commands:
  check   validate a set of values against a schema
  prompt  fill in a schema's fields interactively
  serve   serve an HTML form and validate its submissions
  import  derive a schema from an OpenAPI operation
  lint    report rules a schema uses that are not registered
`)
}
