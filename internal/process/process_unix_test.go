//go:build unix

package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/musher-dev/pauser/internal/clock"
	"github.com/musher-dev/pauser/internal/testutil"
)

// flag is a test Interrupter.
type flag struct {
	set chan struct{}
}

func newFlag() *flag {
	return &flag{set: make(chan struct{})}
}

func (f *flag) Requested() bool {
	select {
	case <-f.set:
		return true
	default:
		return false
	}
}

func (f *flag) raise() {
	select {
	case <-f.set:
	default:
		close(f.set)
	}
}

// launch starts path and releases it when the test ends.
func launch(t *testing.T, path string, clk clock.Clock) *Handle {
	t.Helper()

	h, err := Launch(context.Background(), path, clk)
	if err != nil {
		t.Fatalf("Launch(%q) error = %v", path, err)
	}

	t.Cleanup(h.Release)

	return h
}

func alive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

func TestLaunch_ReportsChildExitCode(t *testing.T) {
	clk := clock.Monotonic()
	h := launch(t, testutil.WriteScript(t, "exit 7"), clk)

	state, err := Poll(context.Background(), h, newFlag(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}

	if state != StateExited {
		t.Fatalf("Poll() state = %v, want %v", state, StateExited)
	}

	res := Finalize(h, clk)

	if res.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", res.ExitCode)
	}

	if !res.TimingAvailable || res.ElapsedSeconds < 0 {
		t.Errorf("elapsed = (%v, %v), want non-negative and available", res.ElapsedSeconds, res.TimingAvailable)
	}

	if res.Interrupted {
		t.Error("Interrupted = true for a child that exited on its own")
	}
}

func TestLaunch_ZeroExit(t *testing.T) {
	clk := clock.Monotonic()
	h := launch(t, testutil.WriteScript(t, "exit 0"), clk)

	if _, err := Poll(context.Background(), h, newFlag(), 50*time.Millisecond); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}

	if res := Finalize(h, clk); res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", res.ExitCode)
	}
}

func TestLaunch_Failures(t *testing.T) {
	notExecutable := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(notExecutable, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		wantCode syscall.Errno
	}{
		{
			name:     "nonexistent absolute path",
			path:     filepath.Join(t.TempDir(), "nope.exe"),
			wantCode: syscall.ENOENT,
		},
		{
			name:     "nonexistent bare name",
			path:     "pauser-definitely-not-a-program",
			wantCode: syscall.ENOENT,
		},
		{
			name:     "not executable",
			path:     notExecutable,
			wantCode: syscall.EACCES,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Launch(context.Background(), tt.path, clock.Monotonic())
			if err == nil {
				h.Release()
				t.Fatalf("Launch(%q) succeeded, want error", tt.path)
			}

			var launchErr *LaunchError
			if !errors.As(err, &launchErr) {
				t.Fatalf("Launch() error = %T, want *LaunchError", err)
			}

			if launchErr.Message == "" {
				t.Error("LaunchError.Message is empty")
			}

			if launchErr.Code != uint32(tt.wantCode) {
				t.Errorf("LaunchError.Code = %d, want %d", launchErr.Code, tt.wantCode)
			}

			if launchErr.Path != tt.path {
				t.Errorf("LaunchError.Path = %q, want %q", launchErr.Path, tt.path)
			}
		})
	}
}

func TestLaunch_EmptyPath(t *testing.T) {
	_, err := Launch(context.Background(), "", clock.Monotonic())

	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("Launch(\"\") error = %v, want *LaunchError", err)
	}

	if launchErr.Message == "" {
		t.Fatal("LaunchError.Message is empty")
	}
}

func TestPoll_InterruptTerminatesWithinOneInterval(t *testing.T) {
	const interval = 200 * time.Millisecond

	clk := clock.Monotonic()
	h := launch(t, testutil.WriteScript(t, "exec sleep 30"), clk)
	pid := h.PID()
	intr := newFlag()

	raisedAt := make(chan time.Time, 1)

	go func() {
		time.Sleep(300 * time.Millisecond)
		raisedAt <- time.Now()
		intr.raise()
	}()

	state, err := Poll(context.Background(), h, intr, interval)
	returned := time.Now()

	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}

	if state != StateInterrupted {
		t.Fatalf("Poll() state = %v, want %v", state, StateInterrupted)
	}

	if latency := returned.Sub(<-raisedAt); latency > interval+500*time.Millisecond {
		t.Errorf("Poll() noticed the interrupt after %v, want within one interval (%v)", latency, interval)
	}

	res := Finalize(h, clk)

	if !res.Interrupted {
		t.Error("Interrupted = false after termination")
	}

	if res.ExitCode != TerminatedExitCode {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, TerminatedExitCode)
	}

	if res.Signal != "SIGKILL" {
		t.Errorf("Signal = %q, want SIGKILL", res.Signal)
	}

	if alive(pid) {
		t.Errorf("child %d still alive after Finalize", pid)
	}
}

func TestPoll_RepeatedInterruptTerminatesOnce(t *testing.T) {
	clk := clock.Monotonic()
	h := launch(t, testutil.WriteScript(t, "exec sleep 30"), clk)
	intr := newFlag()

	intr.raise()
	intr.raise()
	intr.raise()

	state, err := Poll(context.Background(), h, intr, 20*time.Millisecond)
	if err != nil || state != StateInterrupted {
		t.Fatalf("Poll() = (%v, %v), want (%v, nil)", state, err, StateInterrupted)
	}

	res := Finalize(h, clk)

	// The child is gone, so further terminations are no-ops.
	if err := h.Terminate(); err != nil {
		t.Errorf("Terminate() after exit error = %v", err)
	}

	h.Release()
	h.Release()

	if !h.Released() {
		t.Error("Released() = false after Release")
	}

	if res.ExitCode != TerminatedExitCode {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, TerminatedExitCode)
	}
}

func TestPoll_ContextCancelActsAsInterrupt(t *testing.T) {
	clk := clock.Monotonic()
	h := launch(t, testutil.WriteScript(t, "exec sleep 30"), clk)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := Poll(ctx, h, newFlag(), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}

	if state != StateInterrupted {
		t.Fatalf("Poll() state = %v, want %v", state, StateInterrupted)
	}

	if res := Finalize(h, clk); !res.Interrupted {
		t.Error("Interrupted = false after canceled context")
	}
}

func TestPoll_ExitWinsOverLateInterrupt(t *testing.T) {
	clk := clock.Monotonic()
	h := launch(t, testutil.WriteScript(t, "exit 3"), clk)
	intr := newFlag()

	// The child exits inside the first wait, so the flag is never consulted.
	state, err := Poll(context.Background(), h, intr, 5*time.Second)
	intr.raise()

	if err != nil || state != StateExited {
		t.Fatalf("Poll() = (%v, %v), want (%v, nil)", state, err, StateExited)
	}

	if res := Finalize(h, clk); res.ExitCode != 3 || res.Interrupted {
		t.Fatalf("Finalize() = %+v, want exit 3 not interrupted", res)
	}
}

// exitThenInterrupt reports an interrupt only once the child has already
// exited, after at least one wait has timed out.
type exitThenInterrupt struct {
	h *Handle
}

func (e exitThenInterrupt) Requested() bool {
	<-e.h.Exited()
	return true
}

func TestPoll_ChildExitingBeforeTerminationIsExited(t *testing.T) {
	clk := clock.Monotonic()
	h := launch(t, testutil.WriteScript(t, "sleep 0.3\nexit 4"), clk)

	state, err := Poll(context.Background(), h, exitThenInterrupt{h: h}, 50*time.Millisecond)
	if err != nil || state != StateExited {
		t.Fatalf("Poll() = (%v, %v), want (%v, nil)", state, err, StateExited)
	}

	if h.Terminated() {
		t.Error("Terminated() = true for a child that exited on its own")
	}

	if res := Finalize(h, clk); res.ExitCode != 4 || res.Interrupted {
		t.Fatalf("Finalize() = %+v, want exit 4 not interrupted", res)
	}
}

func TestHandle_MethodsAfterRelease(t *testing.T) {
	h := launch(t, testutil.WriteScript(t, "exit 0"), clock.Monotonic())

	<-h.Exited()
	h.Release()

	if _, err := h.Wait(time.Millisecond); !errors.Is(err, ErrReleased) {
		t.Errorf("Wait() after Release error = %v, want ErrReleased", err)
	}

	if err := h.Terminate(); !errors.Is(err, ErrReleased) {
		t.Errorf("Terminate() after Release error = %v, want ErrReleased", err)
	}
}

func TestHandle_ReleaseKillsRunningChild(t *testing.T) {
	h := launch(t, testutil.WriteScript(t, "exec sleep 30"), clock.Monotonic())
	pid := h.PID()

	h.Release()

	select {
	case <-h.Exited():
	default:
		t.Fatal("child not reaped after Release")
	}

	if alive(pid) {
		t.Fatalf("child %d still alive after Release", pid)
	}
}

func TestHandle_WaitTimesOut(t *testing.T) {
	h := launch(t, testutil.WriteScript(t, "exec sleep 30"), clock.Monotonic())

	exited, err := h.Wait(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if exited {
		t.Fatal("Wait() reported exit for a sleeping child")
	}
}

func TestFinalize_ZeroFrequencyClock(t *testing.T) {
	clk := clock.NewManual(0)
	h := launch(t, testutil.WriteScript(t, "exit 5"), clk)

	if _, err := Poll(context.Background(), h, newFlag(), 50*time.Millisecond); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}

	res := Finalize(h, clk)

	if res.TimingAvailable {
		t.Error("TimingAvailable = true with a zero-frequency clock")
	}

	if res.ElapsedSeconds != 0 {
		t.Errorf("ElapsedSeconds = %v, want 0", res.ElapsedSeconds)
	}

	if res.ExitCode != 5 {
		t.Errorf("ExitCode = %d, want 5", res.ExitCode)
	}
}

func TestRun_SleepingChildTiming(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 2s timing test in short mode")
	}

	clk := clock.Monotonic()
	h := launch(t, testutil.WriteScript(t, "sleep 2\nexit 0"), clk)

	if _, err := Poll(context.Background(), h, newFlag(), DefaultPollInterval); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}

	res := Finalize(h, clk)

	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}

	if res.ElapsedSeconds < 1.9 || res.ElapsedSeconds > 3.5 {
		t.Errorf("ElapsedSeconds = %v, want about 2.0", res.ElapsedSeconds)
	}
}
