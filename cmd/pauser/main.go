// Package main is the entry point for the pauser CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/musher-dev/pauser/internal/buildinfo"
	"github.com/musher-dev/pauser/internal/config"
	clierrors "github.com/musher-dev/pauser/internal/errors"
	"github.com/musher-dev/pauser/internal/observability"
	"github.com/musher-dev/pauser/internal/output"
	"github.com/musher-dev/pauser/internal/runner"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	buildinfo.Version = version
	buildinfo.Commit = commit
	buildinfo.Date = date

	out := output.Default()

	cleanups := &cleanupStack{}
	defer func() {
		if err := cleanups.Run(); err != nil {
			out.Hint("%v", err)
		}
	}()

	rootCmd := newRootCmd(out, cleanups)
	if err := rootCmd.Execute(); err != nil {
		return handleError(out, err)
	}

	return clierrors.ExitSuccess
}

// handleError formats and displays a CLI error, returning the appropriate exit code.
// Errors already shown to the user (launch and wait failures) only map to an
// exit code.
func handleError(out *output.Writer, err error) int {
	var cliErr *clierrors.CLIError
	if clierrors.As(err, &cliErr) {
		if cliErr.Reported {
			return cliErr.Code
		}

		out.ErrorStatus("Error", "%s", cliErr.Message)

		if cliErr.Hint != "" {
			out.Hint("%s", cliErr.Hint)
		}

		return cliErr.Code
	}

	errStr := err.Error()

	// Safety net for Cobra errors that bypass SetFlagErrorFunc.
	if strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "required flag") {
		out.ErrorStatus("Error", "%s", errStr)
		out.Hint("Run 'pauser --help' for usage")

		return clierrors.ExitUsage
	}

	out.ErrorStatus("Error", "%s", errStr)

	return clierrors.ExitGeneral
}

// rootOptions holds the parsed command-line flags.
type rootOptions struct {
	timeLimit    int
	pollInterval time.Duration
	noPause      bool
	noTitle      bool

	jsonOutput bool
	quiet      bool
	noColor    bool
	noInput    bool
	logLevel   string
	logFormat  string
	logFile    string
	logStderr  string
}

func newRootCmd(out *output.Writer, cleanups *cleanupStack) *cobra.Command {
	opts := &rootOptions{}

	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "pauser <file_path>",
		Short: "Run a program and pause before the console closes",
		Long: `pauser runs the given program in the current console, waits for it to exit,
then reports its exit code and how long it ran before waiting for a key press.
It keeps a console window open after a program launched by double-click
finishes, so its output can still be read.

Ctrl+C stops the program (not pauser) and still shows the report.`,
		Example: `  pauser ./build.sh
  pauser C:\tools\server.exe
  pauser --no-pause --json ./job`,
		Version:       buildinfo.String(),
		Args:          exactlyOnePath,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Configure output based on flags + env vars
			out.JSON = pickBoolFlagOrEnv(opts.jsonOutput, "PAUSER_JSON")
			out.Quiet = pickBoolFlagOrEnv(opts.quiet, "PAUSER_QUIET")
			out.NoInput = pickBoolFlagOrEnv(opts.noInput, "PAUSER_NO_INPUT") || pickBoolFlagOrEnv(false, "CI")

			if opts.noColor {
				out.SetNoColor(true)

				color.NoColor = true
			}

			loaded, err := config.Load()
			if err != nil {
				return clierrors.ConfigFailed("load config", err)
			}

			cfg = loaded

			logCfg := observability.Config{
				Level:          pickFlagOrEnv(opts.logLevel, "PAUSER_LOG_LEVEL", "info"),
				Format:         pickFlagOrEnv(opts.logFormat, "PAUSER_LOG_FORMAT", "json"),
				LogFile:        pickFlagOrEnv(opts.logFile, "PAUSER_LOG_FILE", ""),
				StderrMode:     pickFlagOrEnv(opts.logStderr, "PAUSER_LOG_STDERR", "auto"),
				InteractiveTTY: out.Terminal().IsTTY,
				SessionID:      uuid.NewString(),
				CommandPath:    cmd.CommandPath(),
				Version:        version,
				Commit:         commit,
			}

			logger, cleanup, err := observability.NewLogger(&logCfg)
			if err != nil {
				return &clierrors.CLIError{
					Message: fmt.Sprintf("Invalid logging configuration: %v", err),
					Hint:    "Use --log-level (error|warn|info|debug), --log-format (json|text), --log-stderr (auto|on|off), and/or --log-file",
					Code:    clierrors.ExitUsage,
				}
			}

			slog.SetDefault(logger)

			if cleanup != nil {
				cleanups.Push("logger resources", cleanup)
			}

			if file := cfg.File(); file != "" {
				logger.Debug("loaded config file", slog.String("path", file))
			}

			ctx := out.WithContext(cmd.Context())
			ctx = observability.WithLogger(ctx, logger)

			// Initialize OpenTelemetry tracing (opt-in via OTEL_ENABLED).
			telemetryShutdown, telemetryErr := observability.SetupTelemetry(ctx, observability.TelemetryConfigFromEnv(version, commit))
			if telemetryErr != nil {
				logger.Warn("telemetry initialization failed", slog.String("error", telemetryErr.Error()))
			}

			if telemetryShutdown != nil {
				cleanups.Push("telemetry resources", func() error {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()

					return telemetryShutdown(shutdownCtx)
				})
			}

			cmd.SetContext(ctx)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, args[0], opts, cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.IntVarP(&opts.timeLimit, "time-limit", "t", runner.NoTimeLimit, "Time limit in seconds (reserved; -1 means none)")
	flags.DurationVar(&opts.pollInterval, "poll-interval", 0, "How often to check for Ctrl+C while waiting (default from config, 1s)")
	flags.BoolVar(&opts.noPause, "no-pause", false, "Exit without waiting for a key press")
	flags.BoolVar(&opts.noTitle, "no-title", false, "Do not set the console title")

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output the result in JSON format")
	rootCmd.PersistentFlags().BoolVar(&opts.quiet, "quiet", false, "Only print failures")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&opts.noInput, "no-input", false, "Never wait for keyboard input")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: error, warn, info, debug")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: json, text")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Optional structured log file path")
	rootCmd.PersistentFlags().StringVar(&opts.logStderr, "log-stderr", "", "Structured logging to stderr: auto, on, off")

	rootCmd.SetVersionTemplate("pauser {{.Version}}\n")

	// Wrap Cobra's raw flag errors in CLIError so they get styled output
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &clierrors.CLIError{
			Message: err.Error(),
			Hint:    fmt.Sprintf("Run '%s --help' for available flags", cmd.CommandPath()),
			Code:    clierrors.ExitUsage,
		}
	})

	return rootCmd
}

// exactlyOnePath is a Cobra positional-arg validator with user-facing messages.
func exactlyOnePath(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return clierrors.UsageMissingPath()
	case len(args) > 1:
		return &clierrors.CLIError{
			Message: fmt.Sprintf("'%s' accepts exactly one executable path, got %d arguments", cmd.Name(), len(args)),
			Hint:    "Quote paths that contain spaces; arguments cannot be passed to the program",
			Code:    clierrors.ExitUsage,
		}
	}

	return nil
}

// cleanupStack runs deferred resource cleanups in reverse order. It runs
// whether or not the command succeeded.
type cleanupStack struct {
	names []string
	fns   []func() error
}

// Push registers fn to run at exit.
func (s *cleanupStack) Push(name string, fn func() error) {
	s.names = append(s.names, name)
	s.fns = append(s.fns, fn)
}

// Run calls every registered cleanup, last in first out, and joins their errors.
func (s *cleanupStack) Run() error {
	var errs []error

	for i := len(s.fns) - 1; i >= 0; i-- {
		if err := s.fns[i](); err != nil {
			errs = append(errs, fmt.Errorf("cleanup %s: %w", s.names[i], err)) //nolint:rawerror // internal cleanup, not user-facing
		}
	}

	s.names = nil
	s.fns = nil

	return errors.Join(errs...)
}

func pickBoolFlagOrEnv(flagValue bool, envKey string) bool {
	if flagValue {
		return true
	}

	v := strings.ToLower(strings.TrimSpace(os.Getenv(envKey)))

	return v == "1" || v == "true" || v == "yes"
}

func pickFlagOrEnv(flagValue, envKey, fallback string) string {
	trimmed := strings.TrimSpace(flagValue)
	if trimmed != "" {
		return trimmed
	}

	if envValue := strings.TrimSpace(os.Getenv(envKey)); envValue != "" {
		return envValue
	}

	return fallback
}
