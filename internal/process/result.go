package process

import (
	"log/slog"
	"math"
	"time"

	"github.com/musher-dev/pauser/internal/clock"
)

// TerminatedExitCode is the exit code reported for a child that was forcibly
// terminated or killed by a signal: the unsigned view of -1.
const TerminatedExitCode uint32 = math.MaxUint32

// finalizeDrainTimeout bounds how long Finalize waits for a terminated child
// to be reaped.
const finalizeDrainTimeout = 10 * time.Second

// Result is the outcome of one execution. It is created once by Finalize and
// not modified afterwards.
type Result struct {
	Path            string  `json:"path"`
	PID             int     `json:"pid"`
	ExitCode        uint32  `json:"exit_code"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	TimingAvailable bool    `json:"timing_available"`
	Interrupted     bool    `json:"interrupted"`
	Signal          string  `json:"signal,omitempty"`
}

// Finalize records the end tick, collects the child's exit status and
// computes the elapsed time. The caller still owns h and releases it.
//
// When clk cannot provide a frequency, ElapsedSeconds is 0 and
// TimingAvailable is false; the exit code is reported either way.
func Finalize(h *Handle, clk clock.Clock) Result {
	end := clk.Now()
	secs, timed := clock.Elapsed(clk, h.Start(), end)

	res := Result{
		Path:            h.Path(),
		PID:             h.PID(),
		ElapsedSeconds:  secs,
		TimingAvailable: timed,
		Interrupted:     h.Terminated(),
	}

	if !drain(h.Exited(), finalizeDrainTimeout) {
		h.log.Warn("child was not reaped in time", slog.Int("pid", res.PID))

		res.ExitCode = TerminatedExitCode

		return res
	}

	_ = h.collect()
	res.ExitCode, res.Signal = exitStatus(h)

	h.log.Info("child finished",
		slog.Int("pid", res.PID),
		slog.Uint64("exit_code", uint64(res.ExitCode)),
		slog.Float64("elapsed_seconds", res.ElapsedSeconds),
		slog.Bool("timing_available", res.TimingAvailable),
		slog.Bool("interrupted", res.Interrupted),
	)

	return res
}

func exitStatus(h *Handle) (uint32, string) {
	state := h.cmd.ProcessState
	if state == nil {
		return TerminatedExitCode, ""
	}

	code := state.ExitCode()
	if code < 0 {
		return TerminatedExitCode, signalName(state)
	}

	return uint32(code), ""
}
