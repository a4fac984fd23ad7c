package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/musher-dev/pauser/internal/observability"
)

// DefaultPollInterval is how long each bounded wait lasts before the interrupt
// flag is checked again. It is also the worst-case interrupt latency.
const DefaultPollInterval = time.Second

// State is the poller's view of the child.
type State int

const (
	// StateRunning means the child was alive at the last bounded wait.
	StateRunning State = iota

	// StateInterrupted means an interrupt was requested and the child was
	// forcibly terminated. It is terminal.
	StateInterrupted

	// StateExited means the child exited on its own. It is terminal.
	StateExited
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateInterrupted:
		return "interrupted"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether polling stops in this state.
func (s State) IsTerminal() bool {
	return s == StateInterrupted || s == StateExited
}

// Interrupter is the read side of an interrupt flag.
type Interrupter interface {
	Requested() bool
}

// Poll waits on h in bounded slices of interval until the child exits or an
// interrupt is requested.
//
// After every wait that times out, intr is consulted; when it is set (or ctx
// is done) the child is terminated and Poll returns StateInterrupted without
// waiting for the child to be reaped. A child that exits on its own before it
// can be terminated is reported as StateExited. A failed termination is logged and
// otherwise ignored. A failure of the wait itself aborts polling and is
// returned with StateRunning.
func Poll(ctx context.Context, h *Handle, intr Interrupter, interval time.Duration) (State, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	log := observability.FromContext(ctx)

	for cycle := 1; ; cycle++ {
		exited, err := h.Wait(interval)
		if err != nil {
			log.Error("waiting on child failed", slog.String("path", h.Path()), slog.String("error", err.Error()))
			return StateRunning, err
		}

		if exited {
			log.Debug("child exited", slog.Int("pid", h.PID()), slog.Int("cycles", cycle))
			return StateExited, nil
		}

		if intr.Requested() || ctx.Err() != nil {
			log.Info("terminating child after interrupt", slog.Int("pid", h.PID()), slog.Int("cycles", cycle))

			if err := h.Terminate(); err != nil {
				log.Debug("terminate failed", slog.String("error", err.Error()))
			}

			// The child may have exited between the wait and the interrupt check.
			if !h.Terminated() {
				log.Debug("child exited before termination", slog.Int("pid", h.PID()))
				return StateExited, nil
			}

			return StateInterrupted, nil
		}
	}
}
