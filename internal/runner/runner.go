// Package runner performs one supervised execution: it installs the interrupt
// handler, launches the target, polls it to completion and finalizes the
// result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/musher-dev/pauser/internal/clock"
	"github.com/musher-dev/pauser/internal/observability"
	"github.com/musher-dev/pauser/internal/process"
)

// NoTimeLimit is the time limit value meaning "wait indefinitely".
const NoTimeLimit = -1

// ErrNoPath is returned when Config.Path is empty.
var ErrNoPath = errors.New("no executable path given")

// Source is the interrupt handler used while the child runs.
type Source interface {
	Install() error
	Stop()
	Requested() bool
}

// Config describes one execution.
type Config struct {
	Path         string
	PollInterval time.Duration

	// TimeLimit is accepted and validated but does not affect polling.
	TimeLimit int

	Clock      clock.Clock
	Interrupts Source
}

// Validate checks the configuration before anything is launched.
func (c *Config) Validate() error {
	if c.Path == "" {
		return ErrNoPath
	}

	if c.TimeLimit < NoTimeLimit {
		return fmt.Errorf("invalid time limit %d: must be -1 or greater", c.TimeLimit)
	}

	if c.PollInterval < 0 {
		return fmt.Errorf("invalid poll interval %s: must not be negative", c.PollInterval)
	}

	if c.Interrupts == nil {
		return errors.New("no interrupt source configured")
	}

	return nil
}

// Run launches cfg.Path and supervises it until it exits or is interrupted.
//
// A launch failure is returned as a *process.LaunchError and a failed wait as
// a *process.WaitError; in both cases the Result is zero. An interrupted child
// is not an error: the Result has Interrupted set.
func Run(ctx context.Context, cfg *Config) (process.Result, error) {
	if err := cfg.Validate(); err != nil {
		return process.Result{}, err
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.Monotonic()
	}

	log := observability.FromContext(ctx)

	ctx, span := observability.Tracer("pauser.runner").Start(ctx, "pauser.run")
	defer span.End()

	span.SetAttributes(observability.AttrExecutablePath.String(cfg.Path))

	if cfg.TimeLimit != NoTimeLimit {
		log.Debug("time limit is not enforced", slog.Int("time_limit", cfg.TimeLimit))
	}

	if err := cfg.Interrupts.Install(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "install interrupt handler")

		return process.Result{}, fmt.Errorf("install interrupt handler: %w", err)
	}
	defer cfg.Interrupts.Stop()

	h, err := process.Launch(ctx, cfg.Path, clk)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "launch failed")

		return process.Result{}, err
	}
	defer h.Release()

	span.SetAttributes(observability.AttrPID.Int(h.PID()))

	if _, err := process.Poll(ctx, h, cfg.Interrupts, cfg.PollInterval); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "wait failed")

		return process.Result{}, err
	}

	res := process.Finalize(h, clk)

	span.SetAttributes(
		observability.AttrExitCode.Int64(int64(res.ExitCode)),
		observability.AttrElapsedSeconds.Float64(res.ElapsedSeconds),
		observability.AttrInterrupted.Bool(res.Interrupted),
	)

	if res.Signal != "" {
		span.SetAttributes(observability.AttrSignal.String(res.Signal))
	}

	return res, nil
}
