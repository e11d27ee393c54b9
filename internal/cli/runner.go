package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/heartcheck/internal/adapters/notify"
	service "github.com/okian/heartcheck/internal/app"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/pkg/logger"
)

// Run submits the form described by cfg and returns the process exit code.
func Run(ctx context.Context, cfg *Config) int {
	if cfg.Help {
		ShowHelp(cfg.Stdout)
		return ExitOK
	}

	holder, err := buildHolder(cfg)
	if err != nil {
		fmt.Fprintf(cfg.Stderr, "invalid form: %v\n", err)
		return ExitValidation
	}

	log := logger.Named("cli")
	log.Debug(ctx, "submitting form",
		logger.String("endpoint", cfg.Endpoint),
		logger.Duration("timeout", cfg.Timeout),
		logger.String("preset", cfg.Preset),
	)

	svc := service.New(
		service.WithPredictURL(cfg.Endpoint),
		service.WithRequestTimeout(cfg.Timeout),
		service.WithNotifier(notify.NewWriter(cfg.Stderr)),
		service.WithLogger(log),
	)
	if err := svc.Start(ctx); err != nil {
		fmt.Fprintf(cfg.Stderr, "failed to start: %v\n", err)
		return ExitFailure
	}
	defer svc.Stop()

	sess, err := svc.NewSession()
	if err != nil {
		fmt.Fprintf(cfg.Stderr, "failed to start: %v\n", err)
		return ExitFailure
	}

	resp, err := sess.Submit(ctx, holder)
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		for _, f := range verr.Fields.Fields() {
			fmt.Fprintf(cfg.Stderr, "-%s: %s\n", f, verr.Fields[f])
		}
		return ExitValidation
	case err != nil:
		// Already reported through the notifier.
		return ExitFailure
	}

	out := Result{Prediction: resp.Prediction, Outcome: string(resp.Outcome())}
	if cfg.JSON {
		if err := json.NewEncoder(cfg.Stdout).Encode(out); err != nil {
			fmt.Fprintf(cfg.Stderr, "write result: %v\n", err)
			return ExitFailure
		}
		return ExitOK
	}
	fmt.Fprintf(cfg.Stdout, "%s (%s)\n", out.Prediction, out.Outcome)
	return ExitOK
}

// buildHolder applies the preset, if any, then each field flag.
func buildHolder(cfg *Config) (*form.Holder, error) {
	holder := form.NewHolder()
	if cfg.Preset != "" {
		rec, err := form.Preset(cfg.Preset)
		if err != nil {
			return nil, err
		}
		holder.Reset(rec)
	}
	for _, f := range form.Order {
		v, ok := cfg.Values[f]
		if !ok {
			continue
		}
		if err := holder.SetField(f, v); err != nil {
			return nil, err
		}
	}
	return holder, nil
}
