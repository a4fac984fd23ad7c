// Package process launches the target program, polls it until it exits or
// an interrupt is requested, and reports its exit status and run time.
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/musher-dev/pauser/internal/clock"
	"github.com/musher-dev/pauser/internal/observability"
	"github.com/musher-dev/pauser/internal/oserror"
)

// ErrReleased is returned by Handle methods called after Release.
var ErrReleased = errors.New("process handle already released")

// releaseDrainTimeout bounds how long Release waits for a still-running child
// to be reaped after killing it.
const releaseDrainTimeout = 10 * time.Second

// LaunchError reports that the operating system could not create the child.
type LaunchError struct {
	Path    string
	Code    uint32 // OS error code, 0 when the failure carried none
	Message string // never empty
	Err     error
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot execute %s: %d: %s", e.Path, e.Code, e.Message)
}

// Unwrap returns the underlying start error.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// WaitError reports that waiting on the child failed for a reason other than
// the child exiting.
type WaitError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *WaitError) Error() string {
	return fmt.Sprintf("wait for %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying wait error.
func (e *WaitError) Unwrap() error {
	return e.Err
}

// Handle owns a launched child process.
//
// Exactly one goroutine calls cmd.Wait; its result is published on done and
// exited is closed afterwards so any number of bounded waits can observe it.
// A Handle is used from a single goroutine and must be released exactly once
// with Release, which is safe to defer and to call again.
type Handle struct {
	path  string
	cmd   *exec.Cmd
	start clock.Tick
	log   *slog.Logger

	done   <-chan error
	exited <-chan struct{}

	collected  bool
	waitErr    error
	terminated bool
	released   bool

	releaseOnce sync.Once
}

// Launch starts the program at path with no arguments, inheriting this
// process's standard streams, environment and working directory.
//
// The start tick is read from clk immediately before the OS creates the
// child. On failure the returned error is a *LaunchError.
func Launch(ctx context.Context, path string, clk clock.Clock) (*Handle, error) {
	log := observability.FromContext(ctx)

	cmd := &exec.Cmd{
		Path:   resolvePath(path),
		Args:   []string{path},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	start := clk.Now()

	if err := cmd.Start(); err != nil {
		code, msg := oserror.Describe(err)
		log.Debug("launch failed", slog.String("path", path), slog.Uint64("os_code", uint64(code)), slog.String("error", msg))

		return nil, &LaunchError{Path: path, Code: code, Message: msg, Err: err}
	}

	done := make(chan error, 1)
	exited := make(chan struct{})

	go func() {
		done <- cmd.Wait()
		close(exited)
	}()

	log.Info("child launched", slog.String("path", path), slog.Int("pid", cmd.Process.Pid))

	return &Handle{
		path:   path,
		cmd:    cmd,
		start:  start,
		log:    log,
		done:   done,
		exited: exited,
	}, nil
}

// resolvePath finds bare program names the way a console does: on PATH, or
// in the current directory. Anything that cannot be resolved is passed to the
// OS unchanged so its own error surfaces.
func resolvePath(path string) string {
	if path == "" || strings.ContainsAny(path, `/\`) || filepath.IsAbs(path) {
		return path
	}

	resolved, err := exec.LookPath(path)
	if err == nil || errors.Is(err, exec.ErrDot) {
		if resolved != "" {
			return resolved
		}
	}

	return path
}

// Path returns the path the handle was launched with.
func (h *Handle) Path() string {
	return h.path
}

// PID returns the child's process ID.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// Start returns the tick recorded just before the child was created.
func (h *Handle) Start() clock.Tick {
	return h.start
}

// Exited returns a channel closed once the child has exited and been reaped.
func (h *Handle) Exited() <-chan struct{} {
	return h.exited
}

// Wait blocks for at most timeout. It reports true once the child has exited
// and false on timeout. A failure of the wait itself is returned as a
// *WaitError; a non-zero exit status is not an error.
func (h *Handle) Wait(timeout time.Duration) (bool, error) {
	if h.released {
		return false, ErrReleased
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-h.exited:
		return true, h.collect()
	case <-timer.C:
		return false, nil
	}
}

// collect reads the single cmd.Wait result. It must only be called after
// exited is closed.
func (h *Handle) collect() error {
	if !h.collected {
		h.waitErr = <-h.done
		h.collected = true
	}

	if h.waitErr == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(h.waitErr, &exitErr) {
		return nil
	}

	return &WaitError{Path: h.path, Err: h.waitErr}
}

// Terminate forcibly ends the child with a failure exit status. It is a no-op
// once the child has exited.
func (h *Handle) Terminate() error {
	if h.released {
		return ErrReleased
	}

	select {
	case <-h.exited:
		return nil
	default:
	}

	h.terminated = true

	if err := terminate(h.cmd.Process); err != nil {
		return fmt.Errorf("terminate %s (pid %d): %w", h.path, h.cmd.Process.Pid, err)
	}

	return nil
}

// Terminated reports whether Terminate was used on a running child.
func (h *Handle) Terminated() bool {
	return h.terminated
}

// Release gives up the handle. A child that is still running is killed and
// reaped (bounded by releaseDrainTimeout) so no process or goroutine outlives
// the handle. Only the first call has any effect.
func (h *Handle) Release() {
	h.releaseOnce.Do(func() {
		select {
		case <-h.exited:
		default:
			h.log.Warn("releasing a running child; terminating it",
				slog.String("path", h.path), slog.Int("pid", h.cmd.Process.Pid))

			if err := h.Terminate(); err != nil {
				h.log.Debug("terminate on release failed", slog.String("error", err.Error()))
			}

			if !drain(h.exited, releaseDrainTimeout) {
				h.log.Warn("child did not exit after termination", slog.Int("pid", h.cmd.Process.Pid))
			}
		}

		h.released = true
	})
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h.released
}

// drain waits for exited with timeout as a hard upper bound.
func drain(exited <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-exited:
		return true
	case <-t.C:
		return false
	}
}
