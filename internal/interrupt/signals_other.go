//go:build !unix

package interrupt

import (
	"os"
	"syscall"
)

// consoleSignals lists the console control events Go surfaces as signals.
// On Windows SIGTERM stands in for Ctrl+Break, close, logoff and shutdown.
func consoleSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
