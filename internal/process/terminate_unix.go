//go:build unix

package process

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// terminate sends SIGKILL to the child only; its descendants are left alone.
func terminate(p *os.Process) error {
	return p.Signal(unix.SIGKILL)
}

// signalName returns the name of the signal that ended the child, if any.
func signalName(state *os.ProcessState) string {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}

	return unix.SignalName(ws.Signal())
}
