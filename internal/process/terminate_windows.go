//go:build windows

package process

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// terminate ends the child through TerminateProcess so its exit code is
// TerminatedExitCode, the same status an interrupted run reports elsewhere.
func terminate(p *os.Process) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(p.Pid))
	if err != nil {
		// The process may already be gone; fall back to the runtime's kill.
		if killErr := p.Kill(); killErr != nil {
			return fmt.Errorf("open process: %w", err)
		}

		return nil
	}
	defer windows.CloseHandle(h)

	return windows.TerminateProcess(h, TerminatedExitCode)
}

func signalName(*os.ProcessState) string {
	return ""
}
