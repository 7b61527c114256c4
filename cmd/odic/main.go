// cmd/odic/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// This binary is a code-generation tool.
//
// It reads a YAML manifest describing one container (slots, types, defaults,
// strategy) and generates a typed wrapper around di.Container:
// - a registry builder declaring every slot in manifest order
// - a package-level di.Definition using the manifest strategy
// - Make<Container>(inputs) returning the typed wrapper
// - one accessor per slot returning the slot's Go type
//
// Imports for the generated file are taken from the owner file (the file
// carrying the go:generate directive for odic), filtered to the packages the
// manifest actually references.

const defaultDIImport = "github.com/sghaida/odic/di"

// Environment fallbacks for the flags. A .env file in the working directory
// is loaded first when present.
const (
	envSpec     = "ODIC_SPEC"
	envOut      = "ODIC_OUT"
	envDIImport = "ODIC_DI_IMPORT"
	envEnv      = "ODIC_ENV"
	envVerbose  = "ODIC_VERBOSE"
)

var errUsage = errors.New("usage: odic -spec <file.di.yaml> -out <file_di.gen.go> [-di-import <path>] [-v]")

// Config is the resolved generator configuration.
type Config struct {
	SpecPath string
	OutPath  string
	DIImport string

	// Env selects the log encoding: "production" logs JSON, anything else
	// logs the development console format.
	Env     string
	Verbose bool
}

// loadConfig merges flags over environment values. Flags win.
func loadConfig(args []string, stderr io.Writer) (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		SpecPath: os.Getenv(envSpec),
		OutPath:  os.Getenv(envOut),
		DIImport: envOr(envDIImport, defaultDIImport),
		Env:      os.Getenv(envEnv),
	}
	if raw := os.Getenv(envVerbose); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", envVerbose, err)
		}
		cfg.Verbose = v
	}

	flags := flag.NewFlagSet("odic", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&cfg.SpecPath, "spec", cfg.SpecPath, "path to the container manifest (.di.yaml)")
	flags.StringVar(&cfg.OutPath, "out", cfg.OutPath, "output .gen.go file path")
	flags.StringVar(&cfg.DIImport, "di-import", cfg.DIImport, "import path of the di package")
	flags.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.SpecPath = strings.TrimSpace(cfg.SpecPath)
	cfg.OutPath = strings.TrimSpace(cfg.OutPath)
	cfg.DIImport = strings.TrimSpace(cfg.DIImport)
	if cfg.SpecPath == "" || cfg.OutPath == "" || cfg.DIImport == "" {
		return Config{}, errUsage
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newLogger builds the generator logger writing to w.
func newLogger(cfg Config, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	var encoder zapcore.Encoder
	if cfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core).Named("odic")
}

// run executes the generator and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	logger := newLogger(cfg, stderr)
	defer func() { _ = logger.Sync() }()

	logger.Debug("config loaded",
		zap.String("spec", cfg.SpecPath),
		zap.String("out", cfg.OutPath),
		zap.String("di_import", cfg.DIImport),
	)

	if err := generate(cfg, logger); err != nil {
		logger.Error("generation failed", zap.String("spec", cfg.SpecPath), zap.Error(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
