package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// config holds settings shared by every subcommand. Environment variables
// provide the defaults and flags override them.
type config struct {
	Schema   string `env:"FORMCHECK_SCHEMA"`
	Addr     string `env:"FORMCHECK_ADDR" envDefault:":8080"`
	LogLevel string `env:"FORMCHECK_LOG_LEVEL" envDefault:"info"`
	Format   string `env:"FORMCHECK_FORMAT" envDefault:"text"`
}

func loadConfig(environ map[string]string) (config, error) {
	var cfg config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return config{}, fmt.Errorf("formcheck: read environment: %w", err)
	}
	return cfg, nil
}

// newFlagSet registers the shared flags on a subcommand flag set.
func newFlagSet(name string, cfg *config, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&cfg.Schema, "schema", "s", cfg.Schema, "schema document (JSON or YAML)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	return fs
}

func newLogger(level string, out io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("formcheck: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderCfg)
	if lvl == zapcore.DebugLevel {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), lvl)
	return zap.New(core), nil
}
