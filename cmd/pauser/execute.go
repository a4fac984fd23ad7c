package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/musher-dev/pauser/internal/clock"
	"github.com/musher-dev/pauser/internal/config"
	clierrors "github.com/musher-dev/pauser/internal/errors"
	"github.com/musher-dev/pauser/internal/interrupt"
	"github.com/musher-dev/pauser/internal/observability"
	"github.com/musher-dev/pauser/internal/output"
	"github.com/musher-dev/pauser/internal/process"
	"github.com/musher-dev/pauser/internal/prompt"
	"github.com/musher-dev/pauser/internal/runner"
	"github.com/musher-dev/pauser/internal/terminal"
)

// failureReport is the --json shape of a launch or wait failure.
type failureReport struct {
	Path    string `json:"path"`
	Error   string `json:"error"`
	Code    uint32 `json:"os_code,omitempty"`
	Message string `json:"message"`
}

// execute runs the target once, reports the outcome and pauses.
func execute(cmd *cobra.Command, path string, opts *rootOptions, cfg *config.Config) error {
	ctx := cmd.Context()
	out := output.FromContext(ctx)
	logger := observability.FromContext(ctx)

	if opts.timeLimit < runner.NoTimeLimit {
		return clierrors.InvalidTimeLimit(opts.timeLimit)
	}

	interval := cfg.PollInterval()
	if cmd.Flags().Changed("poll-interval") {
		interval = opts.pollInterval
	}

	if interval <= 0 {
		return clierrors.InvalidPollInterval(interval)
	}

	if cfg.TitleEnabled() && !opts.noTitle {
		if err := terminal.SetTitle(out.Out, out.Terminal(), path); err != nil {
			logger.Debug("set console title failed", slog.String("error", err.Error()))
		}
	}

	src := interrupt.New(
		interrupt.WithLogger(logger),
		interrupt.WithNotifier(func() {
			if out.JSON {
				return
			}

			out.Println()
			out.Success("Stopped", "signal detected, terminating child process")
		}),
	)

	gate := prompt.New(out, cmd.InOrStdin())
	pauseEnabled := cfg.PauseEnabled() && !opts.noPause && !out.JSON

	res, err := runner.Run(ctx, &runner.Config{
		Path:         path,
		PollInterval: interval,
		TimeLimit:    opts.timeLimit,
		Clock:        clock.Monotonic(),
		Interrupts:   src,
	})
	if err != nil {
		return reportFailure(out, gate, pauseEnabled, cfg.PauseMessage(), path, err)
	}

	if out.JSON {
		return out.PrintJSON(res)
	}

	out.Println()

	if res.TimingAvailable {
		out.Success("Finished", "file exited after %.3fs with return value %d", res.ElapsedSeconds, res.ExitCode)
	} else {
		out.Success("Finished", "file exited with return value %d (elapsed time unavailable)", res.ExitCode)
	}

	if pauseEnabled {
		if err := gate.Pause(output.ToneSuccess, cfg.PauseMessage()); err != nil {
			logger.Debug("pause failed", slog.String("error", err.Error()))
		}
	}

	return nil
}

// reportFailure shows a launch or wait failure, pauses, and returns an error
// that carries the failure exit code without being printed again.
func reportFailure(out *output.Writer, gate *prompt.Prompter, pauseEnabled bool, message, path string, err error) error {
	var (
		launchErr *process.LaunchError
		waitErr   *process.WaitError
		cliErr    *clierrors.CLIError
		report    failureReport
	)

	switch {
	case errors.As(err, &launchErr):
		report = failureReport{Path: path, Error: "launch", Code: launchErr.Code, Message: launchErr.Message}
		cliErr = clierrors.LaunchFailed(path, err)

		if !out.JSON {
			out.Println()
			out.Failure("Failed", "cannot execute %s", path)
			out.Failure("Error", "%d: %s", launchErr.Code, launchErr.Message)
		}
	case errors.As(err, &waitErr):
		report = failureReport{Path: path, Error: "wait", Message: waitErr.Err.Error()}
		cliErr = clierrors.WaitFailed(path, err)

		if !out.JSON {
			out.Println()
			out.Failure("Failed", "lost track of %s", path)
			out.Failure("Error", "%v", waitErr.Err)
		}
	default:
		return clierrors.Wrap(clierrors.ExitGeneral, "Cannot supervise "+path, err)
	}

	if out.JSON {
		if jsonErr := out.PrintJSON(report); jsonErr != nil {
			return cliErr
		}
	}

	if pauseEnabled {
		_ = gate.Pause(output.ToneFailure, message)
	}

	return cliErr.MarkReported()
}
