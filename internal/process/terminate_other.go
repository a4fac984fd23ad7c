//go:build !unix && !windows

package process

import "os"

func terminate(p *os.Process) error {
	return p.Kill()
}

func signalName(*os.ProcessState) string {
	return ""
}
