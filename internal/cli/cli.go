// Package cli implements the predict command: it fills the form from
// flags, submits it once and reports the outcome.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/okian/heartcheck/internal/config"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/pkg/logger"
)

// ParseArgs reads the command line. Flag errors are reported on stderr by
// the flag package and returned.
func ParseArgs(args []string, stdout, stderr io.Writer) (*Config, error) {
	cfg := &Config{
		Values: make(map[form.Field]string),
		Stdout: stdout,
		Stderr: stderr,
	}

	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { ShowHelp(stderr) }
	fs.StringVar(&cfg.Endpoint, "endpoint", config.DefaultPredictURL, "Prediction endpoint URL")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Request timeout (0 waits indefinitely)")
	fs.StringVar(&cfg.Preset, "preset", "", "Start from a preset: "+strings.Join(form.PresetNames(), ", "))
	fs.BoolVar(&cfg.JSON, "json", false, "Print the result as JSON")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cfg.Help, "help", false, "Show help")

	fields := make(map[string]*string, form.FeatureCount)
	for _, f := range form.Order {
		fields[string(f)] = fs.String(string(f), "", f.Label())
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	fs.Visit(func(fl *flag.Flag) {
		if p, ok := fields[fl.Name]; ok {
			cfg.Values[form.Field(fl.Name)] = *p
		}
	})
	return cfg, nil
}

// SetupLogging sends log lines to w, at debug level when verbose and at
// warn level otherwise.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithOutput(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the predict tool.
func ShowHelp(w io.Writer) {
	var b strings.Builder
	b.WriteString(`Heart Disease Prediction
========================

Submits one questionnaire to the prediction endpoint and prints the result.

Usage:
  go run ./cmd/predict [options]

Options:
  -endpoint string
        Prediction endpoint URL (default "` + config.DefaultPredictURL + `")
  -timeout duration
        Request timeout, 0 waits indefinitely (default 0)
  -preset string
        Start from a preset (` + strings.Join(form.PresetNames(), ", ") + `)
  -json
        Print the result as JSON
  -verbose
        Enable verbose logging
  -help
        Show this help message

Fields:
`)
	for _, f := range form.Order {
		fmt.Fprintf(&b, "  -%s\n        %s", f, f.Label())
		if opts := f.Options(); len(opts) > 0 {
			parts := make([]string, 0, len(opts))
			for _, o := range opts {
				parts = append(parts, fmt.Sprintf("%d=%s", o.Value, o.Label))
			}
			fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString(`
Exit status is 0 on success, 1 when the prediction fails, 2 when the form
is invalid.

Examples:
  # Submit the first preset
  go run ./cmd/predict -preset sample-1

  # Override one field of a preset
  go run ./cmd/predict -preset sample-2 -age 55 -json
`)
	_, _ = io.WriteString(w, b.String())
}
